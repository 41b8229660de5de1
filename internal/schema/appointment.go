package schema

// AppointmentCreate is the lead form payload.
type AppointmentCreate struct {
	Name               string  `json:"name"                    validate:"required,min=1,max=100"  example:"Анна Иванова"`
	Phone              string  `json:"phone"                   validate:"required,ruphone"        example:"+79991234567"`
	Service            *string `json:"service,omitempty"       validate:"omitempty,max=200"       example:"Биоревитализация лица"`
	AgreedToProcessing bool    `json:"agreed_to_processing"    validate:"required"                example:"true"`
	AgreedToNewsletter bool    `json:"agreed_to_newsletter"                                       example:"false"`
	Comment            *string `json:"comment,omitempty"       validate:"omitempty,max=500"       example:"Хочу записаться на 15:00"`
}

// Validate normalizes the payload in place and checks it. On success the
// phone is rewritten to +7XXXXXXXXXX. A non-nil result is always FieldErrors.
func (a *AppointmentCreate) Validate() error {
	a.Name = clean(a.Name)
	a.Phone = clean(a.Phone)
	a.Service = cleanOptional(a.Service)
	a.Comment = cleanOptional(a.Comment)

	if err := check(a); err != nil {
		return err
	}
	phone, err := NormalizePhone(a.Phone)
	if err != nil {
		return FieldErrors{{Field: "phone", Tag: "ruphone", Message: MsgInvalidPhone}}
	}
	a.Phone = phone
	return nil
}
