package domain

import "time"

// Tipos de usuário aceitos pela plataforma.
const (
	UserTypeFabricante = "fabricante"
	UserTypeRevendedor = "revendedor"
	UserTypeAdmin      = "admin"
)

// Status possíveis de uma reunião.
const (
	MeetingPending   = "pending"
	MeetingConfirmed = "confirmed"
	MeetingCancelled = "cancelled"
	MeetingCompleted = "completed"
)

// Status possíveis de uma solicitação de reunião.
const (
	RequestPending  = "pending"
	RequestApproved = "approved"
	RequestRejected = "rejected"
)

// Tipos de notificação.
const (
	NotificationInfo    = "info"
	NotificationWarning = "warning"
	NotificationError   = "error"
	NotificationSuccess = "success"
)

const (
	DefaultSlotDuration    = 30
	DefaultMeetingDuration = 30
)

var (
	validUserTypes = map[string]struct{}{
		UserTypeFabricante: {},
		UserTypeRevendedor: {},
		UserTypeAdmin:      {},
	}
	validNotificationTypes = map[string]struct{}{
		NotificationInfo:    {},
		NotificationWarning: {},
		NotificationError:   {},
		NotificationSuccess: {},
	}
	meetingTransitions = map[string][]string{
		MeetingPending:   {MeetingConfirmed, MeetingCancelled},
		MeetingConfirmed: {MeetingCompleted, MeetingCancelled},
	}
	requestTransitions = map[string][]string{
		RequestPending: {RequestApproved, RequestRejected},
	}
)

// User representa empresa participante (fabricante, revendedor) ou administrador.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	Company      *string   `json:"company"`
	Phone        *string   `json:"phone"`
	UserType     string    `json:"userType"`
	ProfileImage *string   `json:"profileImage"`
	Description  *string   `json:"description"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
}

// IsAdmin indica se o usuário administra a plataforma.
func (u User) IsAdmin() bool {
	return u.UserType == UserTypeAdmin
}

// CanManage aplica a regra "dono ou administrador".
func (u User) CanManage(ownerID int64) bool {
	return u.ID == ownerID || u.IsAdmin()
}

// Event é a feira/rodada de negócios.
type Event struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Description  *string   `json:"description"`
	StartDate    time.Time `json:"startDate"`
	EndDate      time.Time `json:"endDate"`
	Location     *string   `json:"location"`
	SlotDuration int       `json:"slotDuration"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Meeting une um fabricante e um revendedor em um horário.
type Meeting struct {
	ID           int64     `json:"id"`
	EventID      *int64    `json:"eventId"`
	FabricanteID int64     `json:"fabricanteId"`
	RevendedorID int64     `json:"revendedorId"`
	ScheduledAt  time.Time `json:"scheduledAt"`
	Duration     int       `json:"duration"`
	Location     *string   `json:"location"`
	Status       string    `json:"status"`
	Notes        *string   `json:"notes"`
	Result       *string   `json:"result"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// HasParticipant indica se o usuário participa da reunião.
func (m Meeting) HasParticipant(userID int64) bool {
	return m.FabricanteID == userID || m.RevendedorID == userID
}

// MeetingRequest é a proposta de reunião enviada de um usuário a outro.
type MeetingRequest struct {
	ID              int64     `json:"id"`
	EventID         *int64    `json:"eventId"`
	RequesterID     int64     `json:"requesterId"`
	TargetID        int64     `json:"targetId"`
	RequestedAt     time.Time `json:"requestedAt"`
	Message         *string   `json:"message"`
	Status          string    `json:"status"`
	ResponseMessage *string   `json:"responseMessage"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// Notification é uma mensagem destinada a um usuário.
type Notification struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	IsRead    bool      `json:"isRead"`
	CreatedAt time.Time `json:"createdAt"`
}

// IsValidUserType valida o tipo de usuário.
func IsValidUserType(userType string) bool {
	_, ok := validUserTypes[userType]
	return ok
}

// IsValidNotificationType valida o tipo de notificação.
func IsValidNotificationType(kind string) bool {
	_, ok := validNotificationTypes[kind]
	return ok
}

// IsValidMeetingStatus valida o status de reunião.
func IsValidMeetingStatus(status string) bool {
	switch status {
	case MeetingPending, MeetingConfirmed, MeetingCancelled, MeetingCompleted:
		return true
	}
	return false
}

// IsValidRequestStatus valida o status de solicitação.
func IsValidRequestStatus(status string) bool {
	switch status {
	case RequestPending, RequestApproved, RequestRejected:
		return true
	}
	return false
}

// CanTransitionMeeting diz se a reunião pode passar de from para to.
// Repetir o status atual é aceito.
func CanTransitionMeeting(from, to string) bool {
	return canTransition(meetingTransitions, from, to)
}

// CanTransitionRequest diz se a solicitação pode passar de from para to.
func CanTransitionRequest(from, to string) bool {
	return canTransition(requestTransitions, from, to)
}

func canTransition(table map[string][]string, from, to string) bool {
	if from == to {
		return true
	}
	for _, next := range table[from] {
		if next == to {
			return true
		}
	}
	return false
}
