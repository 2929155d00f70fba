package dto

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"tradein-estimator/internal/model"

	goValidator "github.com/go-playground/validator/v10"
)

const (
	StepBoatInfo  = 1
	StepCondition = 2
	StepContact   = 3
)

// BoatInfoStep holds the first form step. Numbers stay strings on the wire,
// exactly as the browser form sends them.
type BoatInfoStep struct {
	BoatType    string `json:"boatType" validate:"required,boattype"`
	Year        string `json:"year" validate:"required,number,len=4"`
	Make        string `json:"make" validate:"required"`
	Model       string `json:"model" validate:"required"`
	HIN         string `json:"hin"`
	EngineMake  string `json:"engineMake"`
	Horsepower  string `json:"horsepower" validate:"required,number"`
	EngineHours string `json:"engineHours" validate:"required,number"`
	Trailer     bool   `json:"trailer"`
}

type ConditionStep struct {
	CosmeticCondition   string `json:"cosmeticCondition" validate:"required,oneof=Excellent Good Fair Poor"`
	MechanicalCondition string `json:"mechanicalCondition" validate:"required,oneof=Turn-Key 'Minor Issues' 'Needs Repair'"`
}

type ContactStep struct {
	FullName   string `json:"fullName" validate:"required"`
	Email      string `json:"email" validate:"required,contains=@"`
	Phone      string `json:"phone" validate:"required"`
	PostalCode string `json:"postalCode" validate:"required"`
}

// TradeInFormRequest is the flat form object posted by the UI.
type TradeInFormRequest struct {
	BoatInfoStep
	ConditionStep
	ContactStep
}

// NewValidator returns a validator that reports fields by their JSON names.
func NewValidator() *goValidator.Validate {
	v := goValidator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("boattype", func(fl goValidator.FieldLevel) bool {
		return model.IsBoatType(fl.Field().String())
	})
	return v
}

// ValidateStep checks the fields of one form step. The returned map is keyed
// by JSON field name and is empty when the step is complete.
func ValidateStep(v *goValidator.Validate, step int, form TradeInFormRequest) (map[string]string, error) {
	var target interface{}
	switch step {
	case StepBoatInfo:
		target = form.BoatInfoStep
	case StepCondition:
		target = form.ConditionStep
	case StepContact:
		target = form.ContactStep
	default:
		return nil, fmt.Errorf("%w: unknown form step %d", model.ErrValidation, step)
	}
	return fieldErrors(v.Struct(target))
}

// ValidateForBoatProfile checks the steps needed to build a BoatProfile.
func ValidateForBoatProfile(v *goValidator.Validate, form TradeInFormRequest) (map[string]string, error) {
	errs := map[string]string{}
	for _, step := range []int{StepBoatInfo, StepCondition} {
		stepErrs, err := ValidateStep(v, step, form)
		if err != nil {
			return nil, err
		}
		for k, msg := range stepErrs {
			errs[k] = msg
		}
	}
	return errs, nil
}

func fieldErrors(err error) (map[string]string, error) {
	errs := map[string]string{}
	if err == nil {
		return errs, nil
	}
	var validationErrs goValidator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return nil, err
	}
	for _, fe := range validationErrs {
		errs[fe.Field()] = fieldMessage(fe)
	}
	return errs, nil
}

func fieldMessage(fe goValidator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "number":
		return fe.Field() + " must be a whole number"
	case "len":
		return fe.Field() + " must be " + fe.Param() + " digits"
	case "oneof":
		return fe.Field() + " must be one of: " + fe.Param()
	case "boattype":
		return fe.Field() + " must be one of: " + strings.Join(model.BoatTypeNames(), ", ")
	case "contains":
		return fe.Field() + " must contain " + fe.Param()
	default:
		return fe.Field() + " is invalid"
	}
}

// FormatFieldErrors renders field errors as one deterministic line.
func FormatFieldErrors(errs map[string]string) string {
	keys := make([]string, 0, len(errs))
	for k := range errs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, errs[k])
	}
	return strings.Join(msgs, "; ")
}

// ToForm converts a request that passed ValidateForBoatProfile.
func (r TradeInFormRequest) ToForm() (model.TradeInForm, error) {
	year, err := strconv.Atoi(strings.TrimSpace(r.Year))
	if err != nil {
		return model.TradeInForm{}, fmt.Errorf("%w: year: %v", model.ErrValidation, err)
	}
	hp, err := strconv.Atoi(strings.TrimSpace(r.Horsepower))
	if err != nil {
		return model.TradeInForm{}, fmt.Errorf("%w: horsepower: %v", model.ErrValidation, err)
	}
	hours, err := strconv.Atoi(strings.TrimSpace(r.EngineHours))
	if err != nil {
		return model.TradeInForm{}, fmt.Errorf("%w: engineHours: %v", model.ErrValidation, err)
	}

	return model.TradeInForm{
		Boat: model.BoatProfile{
			BoatType:            model.BoatType(r.BoatType),
			Year:                year,
			Make:                strings.TrimSpace(r.Make),
			Model:               strings.TrimSpace(r.Model),
			Horsepower:          hp,
			EngineHours:         hours,
			Trailer:             r.Trailer,
			CosmeticCondition:   model.CosmeticCondition(r.CosmeticCondition),
			MechanicalCondition: model.MechanicalCondition(r.MechanicalCondition),
			HIN:                 strings.TrimSpace(r.HIN),
			EngineMake:          strings.TrimSpace(r.EngineMake),
		},
		Contact: model.ContactDetails{
			FullName:   strings.TrimSpace(r.FullName),
			Email:      strings.TrimSpace(r.Email),
			Phone:      strings.TrimSpace(r.Phone),
			PostalCode: strings.TrimSpace(r.PostalCode),
		},
	}, nil
}

// NewTradeInFormRequest renders a form back into its wire shape.
func NewTradeInFormRequest(f model.TradeInForm) TradeInFormRequest {
	return TradeInFormRequest{
		BoatInfoStep: BoatInfoStep{
			BoatType:    string(f.Boat.BoatType),
			Year:        strconv.Itoa(f.Boat.Year),
			Make:        f.Boat.Make,
			Model:       f.Boat.Model,
			HIN:         f.Boat.HIN,
			EngineMake:  f.Boat.EngineMake,
			Horsepower:  strconv.Itoa(f.Boat.Horsepower),
			EngineHours: strconv.Itoa(f.Boat.EngineHours),
			Trailer:     f.Boat.Trailer,
		},
		ConditionStep: ConditionStep{
			CosmeticCondition:   string(f.Boat.CosmeticCondition),
			MechanicalCondition: string(f.Boat.MechanicalCondition),
		},
		ContactStep: ContactStep{
			FullName:   f.Contact.FullName,
			Email:      f.Contact.Email,
			Phone:      f.Contact.Phone,
			PostalCode: f.Contact.PostalCode,
		},
	}
}
