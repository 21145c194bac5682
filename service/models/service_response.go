package models

// ServiceResponse is the envelope every endpoint answers with
type ServiceResponse[T any] struct {
	Success bool   `json:"success"`
	Data    *T     `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

func GetServiceResponseOk[T any](data *T) ServiceResponse[T] {
	return ServiceResponse[T]{
		Success: true,
		Data:    data,
	}
}

func GetServiceResponseMessage[T any](data *T, message string) ServiceResponse[T] {
	return ServiceResponse[T]{
		Success: true,
		Data:    data,
		Message: message,
	}
}

func GetServiceResponseError(errorMessage string) ServiceResponse[any] {
	return ServiceResponse[any]{
		Success: false,
		Error:   errorMessage,
	}
}
