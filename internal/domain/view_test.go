package domain

import (
	"encoding/json"
	"testing"
)

func TestEmptyView_JSON(t *testing.T) {
	data, err := json.Marshal(EmptyView())
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	want := `{"prompt":null,"response":null,"error":null}`
	if string(data) != want {
		t.Errorf("EmptyView() = %s, want %s", data, want)
	}
}

func TestSuccessAndErrorView(t *testing.T) {
	ok := SuccessView("hi", "hello")
	if ok.Prompt == nil || *ok.Prompt != "hi" {
		t.Errorf("SuccessView prompt = %v", ok.Prompt)
	}
	if ok.Response == nil || *ok.Response != "hello" {
		t.Errorf("SuccessView response = %v", ok.Response)
	}
	if ok.Error != nil {
		t.Errorf("SuccessView error = %v, want nil", *ok.Error)
	}

	failed := ErrorView("hi", "boom")
	if failed.Response != nil {
		t.Errorf("ErrorView response = %v, want nil", *failed.Response)
	}
	if failed.Error == nil || *failed.Error != "boom" {
		t.Errorf("ErrorView error = %v", failed.Error)
	}
}
