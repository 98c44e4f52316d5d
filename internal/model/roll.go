package model

// RollResponse GET /roll-dice 的响应体
type RollResponse struct {
	RequestID string `json:"request_id"`
	Roll      int    `json:"roll"`
}

// HealthResponse GET /health 的响应体
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}
