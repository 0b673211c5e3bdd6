package form

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func TestBindRequestText(t *testing.T) {
	c := newTestController(t, SignInFields(registry()), nil)
	c.Initialize(context.Background())

	body := url.Values{"email": {"kareem@example.com"}}
	req := httptest.NewRequest("POST", "/signin", strings.NewReader(body.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	fh, err := BindRequest(context.Background(), c, req)
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	if fh != nil {
		t.Fatalf("unexpected file header")
	}
	c.Flush()
	if got := c.TextValues()["email"]; got != "kareem@example.com" {
		t.Fatalf("email = %q", got)
	}
}

func TestBindRequestMultipartFile(t *testing.T) {
	fields, err := StudentSignUpFields(context.Background(), registry(),
		&poolStub{groups: []string{"Alif"}})
	if err != nil {
		t.Fatal(err)
	}
	c := newTestController(t, fields, nil)
	c.Initialize(context.Background())

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	_ = mw.WriteField("fullname", "kareem abdul")
	_ = mw.WriteField("group", "Alif")
	part, _ := mw.CreatePart(map[string][]string{
		"Content-Disposition": {`form-data; name="profileImage"; filename="me.png"`},
		"Content-Type":        {"image/png"},
	})
	_, _ = part.Write([]byte("png-bytes"))
	_ = mw.Close()

	req := httptest.NewRequest("POST", "/new-user/student", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	fh, err := BindRequest(context.Background(), c, req)
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	if fh == nil || fh.Filename != "me.png" {
		t.Fatalf("file header = %+v", fh)
	}
	c.Flush()

	if got := c.TextValues()["fullname"]; got != "kareem abdul" {
		t.Fatalf("fullname = %q", got)
	}
	v := c.Values()["profileImage"]
	f, ok := v.File()
	if !ok {
		t.Fatalf("profileImage not bound as file")
	}
	if f.MIME != "image/png" || f.Size == 0 {
		t.Fatalf("file = %+v", f)
	}
}
