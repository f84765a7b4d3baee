package domain

// ViewModel is rendered both as JSON and into the HTML page.
// After a submit exactly one of Response and Error is set.
type ViewModel struct {
	Prompt   *string `json:"prompt"`
	Response *string `json:"response"`
	Error    *string `json:"error"`
}

func EmptyView() ViewModel {
	return ViewModel{}
}

func SuccessView(prompt, response string) ViewModel {
	return ViewModel{Prompt: &prompt, Response: &response}
}

func ErrorView(prompt, message string) ViewModel {
	return ViewModel{Prompt: &prompt, Error: &message}
}
