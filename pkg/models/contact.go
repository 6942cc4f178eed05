package models

// ContactRequest is a message sent through the contact form.
type ContactRequest struct {
	Company  string `json:"company" form:"company" validate:"max=200"`
	Name     string `json:"name" form:"name" validate:"required,max=100"`
	Email    string `json:"email" form:"email" validate:"required,email,max=254"`
	Tel      string `json:"tel" form:"tel" validate:"omitempty,max=30"`
	Type     string `json:"type" form:"type" validate:"required,inquiry"`
	Message  string `json:"message" form:"message" validate:"required,max=5000"`
	BotField string `json:"bot_field" form:"bot_field"` // honeypot, must stay empty
}

// Company holds the operator's contact details used in mails and pages.
type Company struct {
	Name    string `yaml:"name"`
	NameEn  string `yaml:"name_en"`
	Email   string `yaml:"email"`
	Phone   string `yaml:"phone"`
	Web     string `yaml:"web"`
	Address string `yaml:"address"`
}
