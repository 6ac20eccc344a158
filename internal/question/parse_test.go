package question

import (
	"errors"
	"testing"

	kbcerrors "github.com/shubham-0921/kbc-ai/internal/errors"
)

const validJSON = `{"question":"Which city hosts the Hornbill Festival?","options":["Kohima","Shillong","Imphal","Aizawl"],"correctIndex":0,"explanation":"It is held near Kohima, Nagaland."}`

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
		ok      bool
	}{
		{"bare object", `{"a":1}`, `{"a":1}`, true},
		{"surrounding prose", "Sure! Here you go:\n{\"a\":1}\nEnjoy.", `{"a":1}`, true},
		{"code fence", "```json\n{\"a\":{\"b\":2}}\n```", `{"a":{"b":2}}`, true},
		{"braces in strings", `{"q":"what is {x}?","e":"a \"}\" quote"} trailing {`, `{"q":"what is {x}?","e":"a \"}\" quote"}`, true},
		{"first of two objects", `{"a":1} {"b":2}`, `{"a":1}`, true},
		{"no object", "no json here", "", false},
		{"unbalanced", `{"a":{"b":1}`, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractJSON(tt.content)
			if ok != tt.ok || got != tt.want {
				t.Errorf("ExtractJSON() = %q, %v; want %q, %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestParseQuestion_Valid(t *testing.T) {
	d, err := ParseQuestion("Here is your question:\n" + validJSON)
	if err != nil {
		t.Fatalf("ParseQuestion failed: %v", err)
	}
	if d.Question != "Which city hosts the Hornbill Festival?" {
		t.Errorf("Question = %q", d.Question)
	}
	if d.Options[3] != "Aizawl" || d.CorrectIndex != 0 {
		t.Errorf("Options = %v, CorrectIndex = %d", d.Options, d.CorrectIndex)
	}
	if d.Explanation == "" {
		t.Error("Explanation is empty")
	}
}

func TestParseQuestion_AcceptsIntegralFloatIndex(t *testing.T) {
	d, err := ParseQuestion(`{"question":"q","options":["a","b","c","d"],"correctIndex":3.0,"explanation":"e"}`)
	if err != nil {
		t.Fatalf("ParseQuestion failed: %v", err)
	}
	if d.CorrectIndex != 3 {
		t.Errorf("CorrectIndex = %d, want 3", d.CorrectIndex)
	}
}

func TestParseQuestion_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		field   string
	}{
		{"no object", "sorry, I cannot help", "json"},
		{"broken json", `{"question": "q", "options": [}`, "json"},
		{"missing question", `{"options":["a","b","c","d"],"correctIndex":0,"explanation":"e"}`, "question"},
		{"numeric question", `{"question":42,"options":["a","b","c","d"],"correctIndex":0,"explanation":"e"}`, "question"},
		{"null question", `{"question":null,"options":["a","b","c","d"],"correctIndex":0,"explanation":"e"}`, "question"},
		{"empty question", `{"question":"  ","options":["a","b","c","d"],"correctIndex":0,"explanation":"e"}`, "question"},
		{"three options", `{"question":"q","options":["a","b","c"],"correctIndex":0,"explanation":"e"}`, "options"},
		{"five options", `{"question":"q","options":["a","b","c","d","e"],"correctIndex":0,"explanation":"e"}`, "options"},
		{"options not array", `{"question":"q","options":"abcd","correctIndex":0,"explanation":"e"}`, "options"},
		{"non-string option", `{"question":"q","options":["a","b",3,"d"],"correctIndex":0,"explanation":"e"}`, "options"},
		{"index too high", `{"question":"q","options":["a","b","c","d"],"correctIndex":4,"explanation":"e"}`, "correctIndex"},
		{"negative index", `{"question":"q","options":["a","b","c","d"],"correctIndex":-1,"explanation":"e"}`, "correctIndex"},
		{"fractional index", `{"question":"q","options":["a","b","c","d"],"correctIndex":1.5,"explanation":"e"}`, "correctIndex"},
		{"string index", `{"question":"q","options":["a","b","c","d"],"correctIndex":"1","explanation":"e"}`, "correctIndex"},
		{"null index", `{"question":"q","options":["a","b","c","d"],"correctIndex":null,"explanation":"e"}`, "correctIndex"},
		{"missing explanation", `{"question":"q","options":["a","b","c","d"],"correctIndex":0}`, "explanation"},
		{"array explanation", `{"question":"q","options":["a","b","c","d"],"correctIndex":0,"explanation":["e"]}`, "explanation"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseQuestion(tt.content)
			var valErr *kbcerrors.ValidationError
			if !errors.As(err, &valErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if valErr.Field != tt.field {
				t.Errorf("Field = %q, want %q", valErr.Field, tt.field)
			}
			if !errors.Is(err, kbcerrors.ErrMalformedResponse) {
				t.Error("validation failures should match ErrMalformedResponse")
			}
		})
	}
}
