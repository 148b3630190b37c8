package domain

var (
	MessageSuccessCreateSession = "device session created successfully"
	MessageFailedCreateSession  = "failed to create device session"
)

type (
	CreateSessionRequest struct {
		DeviceID string `json:"device_id" validate:"required"`
	}

	CreateSessionResponse struct {
		Token string `json:"token"`
	}
)
