// Package validation runs the declarative field rules attached to request
// DTOs and reports every violation at once.
//
// Rules live in gin's `binding` tag and the message reported for a failing
// field lives in its `msg` tag:
//
//	type registerDTO struct {
//		Email string `json:"email" binding:"email" msg:"Please include a valid email"`
//	}
package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const locationBody = "body"

type FieldError struct {
	Value    any    `json:"value,omitempty"`
	Msg      string `json:"msg"`
	Param    string `json:"param,omitempty"`
	Location string `json:"location,omitempty"`
}

type Errors []FieldError

func (e Errors) Error() string {
	msgs := make([]string, len(e))
	for i, fe := range e {
		msgs[i] = fe.Msg
	}
	return strings.Join(msgs, "; ")
}

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(jsonName)
	}
}

// Validate checks payload against its binding rules. It returns nil when
// payload is valid.
func Validate(payload any) Errors {
	return translate(payload, binding.Validator.ValidateStruct(payload))
}

// Bind decodes the JSON request body into dst and validates it.
func Bind(c *gin.Context, dst any) Errors {
	if err := c.ShouldBindJSON(dst); err != nil {
		return translate(dst, err)
	}
	return nil
}

func translate(payload any, err error) Errors {
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return Errors{{Msg: "Request body must be valid JSON", Location: locationBody}}
	}

	t := reflect.TypeOf(payload)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	out := make(Errors, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{
			Value:    fe.Value(),
			Msg:      message(t, fe),
			Param:    fe.Field(),
			Location: locationBody,
		})
	}
	return out
}

func message(t reflect.Type, fe validator.FieldError) string {
	if t.Kind() == reflect.Struct {
		if f, ok := t.FieldByName(fe.StructField()); ok {
			if msg := f.Tag.Get("msg"); msg != "" {
				return msg
			}
		}
	}
	return "Invalid value for " + fe.Field()
}

func jsonName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	switch name {
	case "-":
		return ""
	case "":
		return f.Name
	}
	return name
}
