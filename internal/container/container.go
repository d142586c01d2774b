package container

import (
	app "xray-bot/internal/application"
	"xray-bot/internal/domain/port"
)

type Container struct {
	UserService       *app.UserService
	DiagnosisService  *app.DiagnosisService
	EvaluationService *app.EvaluationService
}

// Models классификаторы; nil означает, что модель не загрузилась.
type Models struct {
	Validity port.ImageClassifier
	Covid    port.ImageClassifier
}

func New(userRepo port.UserRepository, history port.DiagnosisRepository, preprocessor port.Preprocessor, models Models) *Container {
	userService := app.NewUserService(userRepo)
	diagnosisService := app.NewDiagnosisService(preprocessor, models.Validity, models.Covid, history)
	evaluationService := app.NewEvaluationService(preprocessor, models.Covid)

	return &Container{
		UserService:       userService,
		DiagnosisService:  diagnosisService,
		EvaluationService: evaluationService,
	}
}
