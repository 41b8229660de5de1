package schema

// ReviewCreate is the public review form payload.
type ReviewCreate struct {
	Name   string `json:"name"   validate:"required,min=2,max=100"   example:"Мария Петрова"`
	Rating int    `json:"rating" validate:"min=1,max=5"              example:"5"`
	Text   string `json:"text"   validate:"required,min=10,max=1000" example:"Отличная клиника! Очень довольна результатом."`
}

// Validate normalizes the payload in place and checks it.
func (r *ReviewCreate) Validate() error {
	r.Name = clean(r.Name)
	r.Text = clean(r.Text)
	return check(r)
}
