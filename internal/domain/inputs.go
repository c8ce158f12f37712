package domain

import (
	"strings"
	"time"

	"github.com/agiseventos/agenda/internal/util"
)

const (
	minDuration     = 5
	maxDuration     = 480
	minSlotDuration = 5
	maxSlotDuration = 240
	maxResultLength = 100
)

// Credentials é o corpo de login.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate aplica as regras de login.
func (c *Credentials) Validate() error {
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	if err := util.ValidateEmail(c.Email); err != nil {
		return wrapField("email", err)
	}
	if c.Password == "" {
		return Invalid("password", "Senha é obrigatória")
	}
	return nil
}

// NewUser é o corpo de cadastro.
type NewUser struct {
	Email        string  `json:"email"`
	Password     string  `json:"password"`
	Name         string  `json:"name"`
	Company      *string `json:"company"`
	Phone        *string `json:"phone"`
	UserType     string  `json:"userType"`
	ProfileImage *string `json:"profileImage"`
	Description  *string `json:"description"`
	IsActive     *bool   `json:"isActive"`
}

// Validate normaliza e valida o cadastro.
func (in *NewUser) Validate() error {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Name = strings.TrimSpace(in.Name)
	in.UserType = strings.ToLower(strings.TrimSpace(in.UserType))
	in.Company = util.TrimPtr(in.Company)
	in.Phone = util.TrimPtr(in.Phone)
	in.ProfileImage = util.TrimPtr(in.ProfileImage)
	in.Description = util.TrimPtr(in.Description)

	if err := util.ValidateEmail(in.Email); err != nil {
		return wrapField("email", err)
	}
	if err := util.ValidatePassword(in.Password); err != nil {
		return wrapField("password", err)
	}
	if err := util.RequireString(in.Name, "Nome"); err != nil {
		return wrapField("name", err)
	}
	if !IsValidUserType(in.UserType) {
		return Invalid("userType", "Tipo de usuário inválido")
	}
	return nil
}

// User monta a entidade a partir do cadastro com o hash já calculado.
func (in NewUser) User(passwordHash string) User {
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	return User{
		Email:        in.Email,
		PasswordHash: passwordHash,
		Name:         in.Name,
		Company:      in.Company,
		Phone:        in.Phone,
		UserType:     in.UserType,
		ProfileImage: in.ProfileImage,
		Description:  in.Description,
		IsActive:     active,
	}
}

// UserPatch é o corpo de atualização de perfil.
type UserPatch struct {
	Email        *string `json:"email"`
	Password     *string `json:"password"`
	Name         *string `json:"name"`
	Company      *string `json:"company"`
	Phone        *string `json:"phone"`
	UserType     *string `json:"userType"`
	ProfileImage *string `json:"profileImage"`
	Description  *string `json:"description"`
	IsActive     *bool   `json:"isActive"`
}

// Validate normaliza e valida a atualização de perfil.
func (p *UserPatch) Validate() error {
	if p.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*p.Email))
		if err := util.ValidateEmail(email); err != nil {
			return wrapField("email", err)
		}
		p.Email = &email
	}
	if p.Password != nil {
		if err := util.ValidatePassword(*p.Password); err != nil {
			return wrapField("password", err)
		}
	}
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if err := util.RequireString(name, "Nome"); err != nil {
			return wrapField("name", err)
		}
		p.Name = &name
	}
	if p.UserType != nil {
		userType := strings.ToLower(strings.TrimSpace(*p.UserType))
		if !IsValidUserType(userType) {
			return Invalid("userType", "Tipo de usuário inválido")
		}
		p.UserType = &userType
	}
	return nil
}

// Changes converte o patch para o formato de armazenamento.
func (p UserPatch) Changes(passwordHash *string) UserChanges {
	return UserChanges{
		Email:        p.Email,
		PasswordHash: passwordHash,
		Name:         p.Name,
		Company:      p.Company,
		Phone:        p.Phone,
		UserType:     p.UserType,
		ProfileImage: p.ProfileImage,
		Description:  p.Description,
		IsActive:     p.IsActive,
	}
}

// UserChanges contém os campos alteráveis de um usuário no armazenamento.
type UserChanges struct {
	Email        *string
	PasswordHash *string
	Name         *string
	Company      *string
	Phone        *string
	UserType     *string
	ProfileImage *string
	Description  *string
	IsActive     *bool
}

// Apply mescla as alterações sobre o usuário.
func (c UserChanges) Apply(u User) User {
	if c.Email != nil {
		u.Email = *c.Email
	}
	if c.PasswordHash != nil {
		u.PasswordHash = *c.PasswordHash
	}
	if c.Name != nil {
		u.Name = *c.Name
	}
	if c.Company != nil {
		u.Company = c.Company
	}
	if c.Phone != nil {
		u.Phone = c.Phone
	}
	if c.UserType != nil {
		u.UserType = *c.UserType
	}
	if c.ProfileImage != nil {
		u.ProfileImage = c.ProfileImage
	}
	if c.Description != nil {
		u.Description = c.Description
	}
	if c.IsActive != nil {
		u.IsActive = *c.IsActive
	}
	return u
}

// NewEvent é o corpo de criação de evento.
type NewEvent struct {
	Name         string    `json:"name"`
	Description  *string   `json:"description"`
	StartDate    time.Time `json:"startDate"`
	EndDate      time.Time `json:"endDate"`
	Location     *string   `json:"location"`
	SlotDuration *int      `json:"slotDuration"`
	IsActive     *bool     `json:"isActive"`
}

// Validate normaliza e valida o evento.
func (in *NewEvent) Validate() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = util.TrimPtr(in.Description)
	in.Location = util.TrimPtr(in.Location)
	if err := util.RequireString(in.Name, "Nome"); err != nil {
		return wrapField("name", err)
	}
	if in.StartDate.IsZero() {
		return Invalid("startDate", "Data de início é obrigatória")
	}
	if in.EndDate.IsZero() {
		return Invalid("endDate", "Data de término é obrigatória")
	}
	if in.EndDate.Before(in.StartDate) {
		return Invalid("endDate", "Data de término anterior ao início")
	}
	if in.SlotDuration != nil && (*in.SlotDuration < minSlotDuration || *in.SlotDuration > maxSlotDuration) {
		return Invalid("slotDuration", "Duração do slot inválida")
	}
	return nil
}

// Event monta a entidade aplicando defaults.
func (in NewEvent) Event() Event {
	slot := DefaultSlotDuration
	if in.SlotDuration != nil {
		slot = *in.SlotDuration
	}
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	return Event{
		Name:         in.Name,
		Description:  in.Description,
		StartDate:    in.StartDate,
		EndDate:      in.EndDate,
		Location:     in.Location,
		SlotDuration: slot,
		IsActive:     active,
	}
}

// NewMeeting é o corpo de criação de reunião.
type NewMeeting struct {
	EventID      *int64    `json:"eventId"`
	FabricanteID int64     `json:"fabricanteId"`
	RevendedorID int64     `json:"revendedorId"`
	ScheduledAt  time.Time `json:"scheduledAt"`
	Duration     *int      `json:"duration"`
	Location     *string   `json:"location"`
	Status       string    `json:"status"`
	Notes        *string   `json:"notes"`
	Result       *string   `json:"result"`
}

// Validate normaliza e valida a reunião.
func (in *NewMeeting) Validate() error {
	in.Status = strings.ToLower(strings.TrimSpace(in.Status))
	if in.Status == "" {
		in.Status = MeetingPending
	}
	in.Location = util.TrimPtr(in.Location)
	in.Notes = util.TrimPtr(in.Notes)
	in.Result = util.TrimPtr(in.Result)

	if in.FabricanteID <= 0 {
		return Invalid("fabricanteId", "Fabricante é obrigatório")
	}
	if in.RevendedorID <= 0 {
		return Invalid("revendedorId", "Revendedor é obrigatório")
	}
	if in.FabricanteID == in.RevendedorID {
		return Invalid("revendedorId", "Participantes devem ser distintos")
	}
	if in.ScheduledAt.IsZero() {
		return Invalid("scheduledAt", "Horário é obrigatório")
	}
	if in.Duration != nil {
		if err := validateDuration(*in.Duration); err != nil {
			return err
		}
	}
	if !IsValidMeetingStatus(in.Status) {
		return Invalid("status", "Status inválido")
	}
	if in.Result != nil {
		if err := util.MaxLength(*in.Result, "Resultado", maxResultLength); err != nil {
			return wrapField("result", err)
		}
	}
	return nil
}

// Meeting monta a entidade aplicando defaults.
func (in NewMeeting) Meeting() Meeting {
	duration := DefaultMeetingDuration
	if in.Duration != nil {
		duration = *in.Duration
	}
	return Meeting{
		EventID:      in.EventID,
		FabricanteID: in.FabricanteID,
		RevendedorID: in.RevendedorID,
		ScheduledAt:  in.ScheduledAt,
		Duration:     duration,
		Location:     in.Location,
		Status:       in.Status,
		Notes:        in.Notes,
		Result:       in.Result,
	}
}

// MeetingPatch é a atualização parcial de reunião.
type MeetingPatch struct {
	EventID      *int64     `json:"eventId"`
	FabricanteID *int64     `json:"fabricanteId"`
	RevendedorID *int64     `json:"revendedorId"`
	ScheduledAt  *time.Time `json:"scheduledAt"`
	Duration     *int       `json:"duration"`
	Location     *string    `json:"location"`
	Status       *string    `json:"status"`
	Notes        *string    `json:"notes"`
	Result       *string    `json:"result"`
}

// Validate valida os campos presentes no patch.
func (p *MeetingPatch) Validate() error {
	if p.Status != nil {
		status := strings.ToLower(strings.TrimSpace(*p.Status))
		if !IsValidMeetingStatus(status) {
			return Invalid("status", "Status inválido")
		}
		p.Status = &status
	}
	if p.Duration != nil {
		if err := validateDuration(*p.Duration); err != nil {
			return err
		}
	}
	if p.FabricanteID != nil && *p.FabricanteID <= 0 {
		return Invalid("fabricanteId", "Fabricante inválido")
	}
	if p.RevendedorID != nil && *p.RevendedorID <= 0 {
		return Invalid("revendedorId", "Revendedor inválido")
	}
	if p.ScheduledAt != nil && p.ScheduledAt.IsZero() {
		return Invalid("scheduledAt", "Horário inválido")
	}
	if p.Result != nil {
		if err := util.MaxLength(*p.Result, "Resultado", maxResultLength); err != nil {
			return wrapField("result", err)
		}
	}
	return nil
}

// Apply mescla o patch sobre a reunião.
func (p MeetingPatch) Apply(m Meeting) Meeting {
	if p.EventID != nil {
		m.EventID = p.EventID
	}
	if p.FabricanteID != nil {
		m.FabricanteID = *p.FabricanteID
	}
	if p.RevendedorID != nil {
		m.RevendedorID = *p.RevendedorID
	}
	if p.ScheduledAt != nil {
		m.ScheduledAt = *p.ScheduledAt
	}
	if p.Duration != nil {
		m.Duration = *p.Duration
	}
	if p.Location != nil {
		m.Location = p.Location
	}
	if p.Status != nil {
		m.Status = *p.Status
	}
	if p.Notes != nil {
		m.Notes = p.Notes
	}
	if p.Result != nil {
		m.Result = p.Result
	}
	return m
}

// NewMeetingRequest é o corpo de criação de solicitação.
type NewMeetingRequest struct {
	EventID     *int64    `json:"eventId"`
	TargetID    int64     `json:"targetId"`
	RequestedAt time.Time `json:"requestedAt"`
	Message     *string   `json:"message"`
}

// Validate valida a solicitação para o solicitante informado.
func (in *NewMeetingRequest) Validate(requesterID int64) error {
	in.Message = util.TrimPtr(in.Message)
	if in.TargetID <= 0 {
		return Invalid("targetId", "Destinatário é obrigatório")
	}
	if in.TargetID == requesterID {
		return Invalid("targetId", "Não é possível solicitar reunião consigo mesmo")
	}
	if in.RequestedAt.IsZero() {
		return Invalid("requestedAt", "Horário é obrigatório")
	}
	return nil
}

// MeetingRequest monta a entidade.
func (in NewMeetingRequest) MeetingRequest(requesterID int64) MeetingRequest {
	return MeetingRequest{
		EventID:     in.EventID,
		RequesterID: requesterID,
		TargetID:    in.TargetID,
		RequestedAt: in.RequestedAt,
		Message:     in.Message,
		Status:      RequestPending,
	}
}

// MeetingRequestPatch é a atualização parcial de solicitação.
type MeetingRequestPatch struct {
	RequestedAt     *time.Time `json:"requestedAt"`
	Message         *string    `json:"message"`
	Status          *string    `json:"status"`
	ResponseMessage *string    `json:"responseMessage"`
}

// Validate valida os campos presentes.
func (p *MeetingRequestPatch) Validate() error {
	if p.Status != nil {
		status := strings.ToLower(strings.TrimSpace(*p.Status))
		if !IsValidRequestStatus(status) {
			return Invalid("status", "Status inválido")
		}
		p.Status = &status
	}
	if p.RequestedAt != nil && p.RequestedAt.IsZero() {
		return Invalid("requestedAt", "Horário inválido")
	}
	return nil
}

// Apply mescla o patch sobre a solicitação.
func (p MeetingRequestPatch) Apply(r MeetingRequest) MeetingRequest {
	if p.RequestedAt != nil {
		r.RequestedAt = *p.RequestedAt
	}
	if p.Message != nil {
		r.Message = p.Message
	}
	if p.Status != nil {
		r.Status = *p.Status
	}
	if p.ResponseMessage != nil {
		r.ResponseMessage = p.ResponseMessage
	}
	return r
}

// NewNotification é o corpo de criação de notificação.
type NewNotification struct {
	UserID  int64  `json:"userId"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

// Validate normaliza e valida a notificação.
func (in *NewNotification) Validate() error {
	in.Title = strings.TrimSpace(in.Title)
	in.Message = strings.TrimSpace(in.Message)
	in.Type = strings.ToLower(strings.TrimSpace(in.Type))
	if in.Type == "" {
		in.Type = NotificationInfo
	}
	if in.UserID <= 0 {
		return Invalid("userId", "Usuário é obrigatório")
	}
	if err := util.RequireString(in.Title, "Título"); err != nil {
		return wrapField("title", err)
	}
	if err := util.RequireString(in.Message, "Mensagem"); err != nil {
		return wrapField("message", err)
	}
	if !IsValidNotificationType(in.Type) {
		return Invalid("type", "Tipo de notificação inválido")
	}
	return nil
}

// Notification monta a entidade.
func (in NewNotification) Notification() Notification {
	return Notification{
		UserID:  in.UserID,
		Title:   in.Title,
		Message: in.Message,
		Type:    in.Type,
	}
}

func validateDuration(minutes int) error {
	if minutes < minDuration || minutes > maxDuration {
		return Invalid("duration", "Duração inválida")
	}
	return nil
}
