package handler

import "encoding/json"

// Swagger-only shapes. The handlers pass the raw body through and reply with
// domain.Response; these types only describe that JSON for the API docs.

// RegisterUserDoc is the POST /users request body.
type RegisterUserDoc struct {
	Username string      `json:"username" example:"alice"`
	Password string      `json:"password" example:"Str0ng!Pass"`
	Role     string      `json:"role" example:"member"`
	UserData UserDataDoc `json:"user_data"`
}

type UserDataDoc struct {
	Contact ContactDoc `json:"contact"`
}

type ContactDoc struct {
	Email string `json:"email" example:"alice@example.com"`
}

// EnvelopeDoc is the response envelope with a string payload.
type EnvelopeDoc struct {
	Status        int    `json:"status" example:"-1"`
	StatusMessage string `json:"status_message" example:"Failed to create a new user, invalid username"`
	Response      string `json:"response" example:"Username should always be in lowercase characters and underscore or numbers only"`
}

type CreatedUserDoc struct {
	ID       int64  `json:"id" example:"1"`
	Username string `json:"username" example:"alice"`
	Role     string `json:"role" example:"member"`
}

type CreatedUserResponseDoc struct {
	Status        int            `json:"status" example:"0"`
	StatusMessage string         `json:"status_message" example:"User created"`
	Response      CreatedUserDoc `json:"response"`
}

type ResourceDoc struct {
	ID       int64           `json:"id" example:"1"`
	Username string          `json:"username" example:"alice"`
	Role     string          `json:"role" example:"member"`
	UserData json.RawMessage `json:"user_data" swaggertype:"object"`
}

type ResourceResponseDoc struct {
	Status        int         `json:"status" example:"0"`
	StatusMessage string      `json:"status_message" example:"Resource found"`
	Response      ResourceDoc `json:"response"`
}
