package handlers

import (
	"errors"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"chatroom-service/internal/identifier"
)

var (
	registerOnce sync.Once
	registerErr  error
)

// RegisterValidators adds the custom binding tags used by request structs:
//
//	roomcode: exactly six digits
func RegisterValidators() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerErr = errors.New("gin binding engine is not validator/v10")
			return
		}
		registerErr = v.RegisterValidation("roomcode", func(fl validator.FieldLevel) bool {
			return identifier.IsRoomCode(fl.Field().String())
		})
	})
	return registerErr
}
