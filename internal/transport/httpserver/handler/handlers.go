package handler

import (
	interestsdomain "parliament-interests/internal/domain/interests"
	membersdomain "parliament-interests/internal/domain/members"
	"parliament-interests/pkg/logger"
)

type Handlers struct {
	Members   *membersdomain.Service
	Interests *interestsdomain.Service
	log       logger.Logger
}

func New(members *membersdomain.Service, interests *interestsdomain.Service, log logger.Logger) *Handlers {
	if log == nil {
		log = logger.Nop()
	}
	return &Handlers{
		Members:   members,
		Interests: interests,
		log:       log,
	}
}
