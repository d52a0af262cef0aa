package sendgrid

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	pkgerrors "github.com/wmbgolfco/engraving-backend/pkg/errors"
)

type sentMail struct {
	Personalizations []struct {
		To []struct {
			Email string `json:"email"`
		} `json:"to"`
	} `json:"personalizations"`
	From struct {
		Email string `json:"email"`
	} `json:"from"`
	Subject string `json:"subject"`
	Content []struct {
		Type  string `json:"type"`
		Value string `json:"value"`
	} `json:"content"`
	Attachments []struct {
		Content     string `json:"content"`
		Type        string `json:"type"`
		Filename    string `json:"filename"`
		Disposition string `json:"disposition"`
	} `json:"attachments"`
}

func TestSendPostsMailWithAttachment(t *testing.T) {
	var got sentMail
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != mailSendPath {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer key" {
			t.Errorf("unexpected auth header %q", r.Header.Get("Authorization"))
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	client, err := NewClient("key", "noreply@wmbgolfco.com", WithBaseURL(server.URL))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	err = client.Send(context.Background(), Message{
		To:      "info@wmbgolfco.com",
		Subject: "New Logo Upload - Ball Markers Order",
		HTML:    "<p>hi</p>",
		Attachments: []Attachment{{
			Filename:    "logo.png",
			ContentType: "image/png",
			Content:     []byte("png"),
		}},
	})
	if err != nil {
		t.Fatalf("send: %v", err)
	}

	if got.From.Email != "noreply@wmbgolfco.com" {
		t.Fatalf("unexpected from %q", got.From.Email)
	}
	if len(got.Personalizations) != 1 || got.Personalizations[0].To[0].Email != "info@wmbgolfco.com" {
		t.Fatalf("unexpected recipients %+v", got.Personalizations)
	}
	if len(got.Attachments) != 1 || got.Attachments[0].Content != base64.StdEncoding.EncodeToString([]byte("png")) {
		t.Fatalf("unexpected attachments %+v", got.Attachments)
	}
	if got.Attachments[0].Disposition != "attachment" || got.Attachments[0].Type != "image/png" || got.Attachments[0].Filename != "logo.png" {
		t.Fatalf("unexpected attachment %+v", got.Attachments[0])
	}
	if got.Subject != "New Logo Upload - Ball Markers Order" || len(got.Content) != 1 || got.Content[0].Type != "text/html" {
		t.Fatalf("unexpected subject or content %q %+v", got.Subject, got.Content)
	}
}

func TestSendMapsRejectionToDependencyError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"errors":[{"message":"bad key"}]}`))
	}))
	defer server.Close()

	client, _ := NewClient("key", "noreply@wmbgolfco.com", WithBaseURL(server.URL))
	err := client.Send(context.Background(), Message{To: "info@wmbgolfco.com"})
	if !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestNewClientRequiresKeyAndSender(t *testing.T) {
	if _, err := NewClient(" ", "a@b.c"); err == nil {
		t.Fatal("expected error for missing key")
	}
	if _, err := NewClient("key", ""); err == nil {
		t.Fatal("expected error for missing sender")
	}
}

func TestSendRequiresRecipient(t *testing.T) {
	client, _ := NewClient("key", "a@b.c")
	if err := client.Send(context.Background(), Message{}); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
