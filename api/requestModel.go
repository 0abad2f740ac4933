package api

// Live polls

type ActivateRequest struct {
	QuestionID string `json:"question_id" binding:"required"`
}

// VTuber control passthrough

type VtuberSpeakRequest struct {
	Text       string  `json:"text" binding:"required"`
	ClientUID  *string `json:"client_uid"`
	ApplyToAll bool    `json:"apply_to_all"`
}

type VtuberSystemRequest struct {
	Text       string  `json:"text" binding:"required"`
	Mode       string  `json:"mode"`
	ClientUID  *string `json:"client_uid"`
	ApplyToAll bool    `json:"apply_to_all"`
}

type VtuberRespondRequest struct {
	Text       string  `json:"text" binding:"required"`
	ClientUID  *string `json:"client_uid"`
	ApplyToAll bool    `json:"apply_to_all"`
}
