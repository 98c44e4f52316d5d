package errors

func (d Definition) Error() string {
	return d.Message
}

// Definition 表示业务错误码及默认信息。
type Definition struct {
	Code    string
	Message string
}

// 掷骰接口错误。
var (
	InvalidRequest    = Definition{Code: "INVALID_REQUEST", Message: "Invalid request"}
	RollIDUnavailable = Definition{Code: "ROLL_ID_UNAVAILABLE", Message: "Request ID generator unavailable"}
	RollFailed        = Definition{Code: "ROLL_FAILED", Message: "Dice roll failed"}
)

// Lookup 提供错误码查询能力。
var Lookup = map[string]Definition{
	InvalidRequest.Code:    InvalidRequest,
	RollIDUnavailable.Code: RollIDUnavailable,
	RollFailed.Code:        RollFailed,
}

// Get 根据错误码返回 Definition，若不存在则返回空 Definition。
func Get(code string) Definition {
	if def, ok := Lookup[code]; ok {
		return def
	}
	return Definition{Code: code, Message: "Unexpected error"}
}
