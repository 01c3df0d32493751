package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatroom-service/internal/contacts"
	"chatroom-service/internal/models"
)

func setupContactRouter(handler *ContactHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/contacts", handler.ListContacts)
	r.POST("/contacts", handler.AddContact)
	r.POST("/contacts/import", handler.ImportContacts)
	r.GET("/contacts/:name/messages", handler.ContactMessages)
	r.POST("/contacts/:name/messages", handler.SendContactMessage)
	return r
}

func uploadCSV(t *testing.T, router *gin.Engine, filename, content string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/contacts/import", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestAddContact(t *testing.T) {
	router := setupContactRouter(NewContactHandler(contacts.NewRegistry(), nil))

	rec := doJSON(router, http.MethodPost, "/contacts", `{"name":"Ann","phone_number":"555-0100"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(router, http.MethodPost, "/contacts", `{"name":"Ann","phone_number":"555-0100"}`)
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "Contact already exists.")

	rec = doJSON(router, http.MethodPost, "/contacts", `{"name":"Ann","phone_number":""}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Please enter both name and phone number.")

	rec = doJSON(router, http.MethodGet, "/contacts", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var state models.ContactsState
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&state))
	require.Len(t, state.Contacts, 1)
	assert.Equal(t, "Ann", state.Contacts[0].Name)
	assert.Empty(t, state.Contacts[0].Messages)
}

func TestImportContacts(t *testing.T) {
	registry := contacts.NewRegistry()
	router := setupContactRouter(NewContactHandler(registry, nil))

	rec := uploadCSV(t, router, "people.csv", "Full Name,Phone Number\nAnn,555-0100\n,555-0101\nBob,555-0102\nAnn,555-0100\n")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Imported int      `json:"imported"`
		Skipped  int      `json:"skipped"`
		Warnings []string `json:"warnings"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 2, resp.Imported)
	assert.Equal(t, []string{"Skipping row 3 due to missing name or phone."}, resp.Warnings)
	assert.Len(t, registry.List(), 2)
}

func TestImportContactsRejectsNonCSV(t *testing.T) {
	router := setupContactRouter(NewContactHandler(contacts.NewRegistry(), nil))

	rec := uploadCSV(t, router, "people.txt", "name,phone\nAnn,1\n")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestImportContactsMissingColumns(t *testing.T) {
	registry := contacts.NewRegistry()
	router := setupContactRouter(NewContactHandler(registry, nil))

	rec := uploadCSV(t, router, "people.csv", "first,last\nAnn,Lee\n")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "'name' and 'phone'")
	assert.Empty(t, registry.List())
}

func TestImportContactsRequiresFile(t *testing.T) {
	router := setupContactRouter(NewContactHandler(contacts.NewRegistry(), nil))

	rec := doJSON(router, http.MethodPost, "/contacts/import", `{}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSendContactMessage(t *testing.T) {
	registry := contacts.NewRegistry()
	_, err := registry.Add("Ann", "555-0100")
	require.NoError(t, err)
	router := setupContactRouter(NewContactHandler(registry, nil))

	rec := doJSON(router, http.MethodPost, "/contacts/Ann/messages", `{"content":"hi"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(router, http.MethodGet, "/contacts/Ann/messages", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Messages []string `json:"messages"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, []string{"You: hi"}, resp.Messages)
}

func TestSendContactMessageErrors(t *testing.T) {
	registry := contacts.NewRegistry()
	_, err := registry.Add("Ann", "555-0100")
	require.NoError(t, err)
	router := setupContactRouter(NewContactHandler(registry, nil))

	rec := doJSON(router, http.MethodPost, "/contacts/Ann/messages", `{"content":"   "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(router, http.MethodPost, "/contacts/Zed/messages", `{"content":"hi"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(router, http.MethodGet, "/contacts/Zed/messages", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
