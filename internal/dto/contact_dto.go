package dto

type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Topic   string `json:"topic"`
	Message string `json:"message"`
}

type ContactResponse struct {
	Ok bool `json:"ok"`
}
