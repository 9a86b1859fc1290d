package service

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

type CreateInput struct {
	FirstName string `form:"first_name" json:"first_name" validate:"required,max=64"`
	LastName  string `form:"last_name"  json:"last_name"  validate:"required,max=64"`
	Email     string `form:"email"      json:"email"      validate:"required,email,max=191"`
	Password  string `form:"password"   json:"password"   validate:"required,max=72"`
}

// UpdateInput 密码可不填，不填就保持原密码
type UpdateInput struct {
	FirstName string `form:"first_name" json:"first_name" validate:"required,max=64"`
	LastName  string `form:"last_name"  json:"last_name"  validate:"required,max=64"`
	Email     string `form:"email"      json:"email"      validate:"required,email,max=191"`
	Password  string `form:"password"   json:"password"   validate:"omitempty,max=72"`
}

func (in *CreateInput) normalize() {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.TrimSpace(in.Email)
}

func (in *UpdateInput) normalize() {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.TrimSpace(in.Email)
}

// OldInput 回填表单用，不含密码
func (in CreateInput) OldInput() map[string]string {
	return map[string]string{"first_name": in.FirstName, "last_name": in.LastName, "email": in.Email}
}

func (in UpdateInput) OldInput() map[string]string {
	return map[string]string{"first_name": in.FirstName, "last_name": in.LastName, "email": in.Email}
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// fieldErrors 把 validator 的错误转成 字段 -> 提示；每个字段只保留第一条
func fieldErrors(err error) map[string]string {
	out := map[string]string{}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		out["_"] = err.Error()
		return out
	}
	for _, fe := range verrs {
		if _, seen := out[fe.Field()]; seen {
			continue
		}
		out[fe.Field()] = message(fe)
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", fe.Field())
	case "email":
		return fmt.Sprintf("The %s field must be a valid email address.", fe.Field())
	case "max":
		return fmt.Sprintf("The %s field must not be greater than %s characters.", fe.Field(), fe.Param())
	}
	return fmt.Sprintf("The %s field is invalid.", fe.Field())
}

const msgEmailTaken = "The email has already been taken."
