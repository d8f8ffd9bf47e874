package contract

import (
	"resume-roaster-be/internal/entity"
)

type SessionRepository interface {
	Save(session *entity.Session)
	Get(sessionId string) (*entity.Session, bool)
	Delete(sessionId string)
}
