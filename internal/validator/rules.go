package validator

import (
	"log"

	"credmatrix_backend/internal/algorithms"
	"credmatrix_backend/internal/models"

	"github.com/go-playground/validator/v10"
)

// registerCustomRules регистрирует все кастомные функции валидации в
// переданном экземпляре валидатора.
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	mustRegister("nsqf-level", validateNSQFLevel)
	mustRegister("user-role", validateUserRole)
	mustRegister("self-role", validateSelfRole)
	mustRegister("credential-type", validateCredentialType)
	mustRegister("job-status", validateJobStatus)
	mustRegister("verification-status", validateVerificationStatus)
}

// Empty values pass every rule below; 'required' handles presence.

func validateNSQFLevel(fl validator.FieldLevel) bool {
	level := fl.Field().Int()
	return level == 0 || algorithms.ValidNSQFLevel(int(level))
}

func validateUserRole(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == "" || models.UserRole(value).IsValid()
}

func validateSelfRole(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == "" || models.UserRole(value).SelfRegistrable()
}

func validateCredentialType(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == "" || models.CredentialType(value).IsValid()
}

func validateJobStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == "" || models.JobStatus(value).IsValid()
}

func validateVerificationStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == "" || models.VerificationStatus(value).IsValid()
}
