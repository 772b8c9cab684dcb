package app

func errBody(msg string) map[string]string {
	return map[string]string{"error": msg}
}

func get404(msg string) *AppResp {
	return &AppResp{Code: 404, Body: errBody(msg)}
}

func get405() *AppResp {
	return &AppResp{Code: 405, Body: errBody("method not allowed")}
}

func get500(err error, msg string) *AppResp {
	return &AppResp{Code: 500, Body: errBody(msg), Error: err}
}
