package trainingapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func jsonHandler(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

func TestGetFormationPlainObject(t *testing.T) {
	srv := httptest.NewServer(jsonHandler(200, `{"idFormation":42,"titreFormation":"HACCP"}`))
	defer srv.Close()

	f, err := New(srv.URL).GetFormation(context.Background(), 42)
	if err != nil {
		t.Fatalf("get formation: %v", err)
	}
	if f.ID != 42 || f.Title != "HACCP" {
		t.Fatalf("unexpected formation: %+v", f)
	}
}

func TestGetFormationUnwrapsArrays(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"single wrap", `[{"idFormation":42,"theme":"Securite"}]`},
		{"double wrap", `[[{"idFormation":42,"theme":"Securite"}]]`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(jsonHandler(200, tc.body))
			defer srv.Close()
			f, err := New(srv.URL).GetFormation(context.Background(), 42)
			if err != nil {
				t.Fatalf("get formation: %v", err)
			}
			if f.ID != 42 || f.Theme != "Securite" {
				t.Fatalf("unexpected formation: %+v", f)
			}
		})
	}
}

func TestGetFormationNotFound(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
	}{
		{"404", 404, `{"message":"not found"}`},
		{"empty array", 200, `[]`},
		{"null body", 200, `null`},
		{"zero id", 200, `{"idFormation":0}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(jsonHandler(tc.status, tc.body))
			defer srv.Close()
			_, err := New(srv.URL).GetFormation(context.Background(), 42)
			if !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}
		})
	}
}

func TestGetFormationServerError(t *testing.T) {
	srv := httptest.NewServer(jsonHandler(500, `{"message":"boom"}`))
	defer srv.Close()
	_, err := New(srv.URL).GetFormation(context.Background(), 42)
	if err == nil || errors.Is(err, ErrNotFound) {
		t.Fatalf("expected a transport-level error, got %v", err)
	}
}

func TestListDetailedContents(t *testing.T) {
	body := `[
		{"idContenuDetaille":10,"titre":"Intro","dureeTheorique":30,
		 "levels":[{"files":[{"fileType":"application/pdf","filePath":"intro.pdf"}]}]},
		{"idContenuDetaille":11,"titre":"Suite","methodesPedagogiques":"Etude de cas"}
	]`
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		jsonHandler(200, body)(w, r)
	}))
	defer srv.Close()

	out, err := New(srv.URL).ListDetailedContents(context.Background(), 42)
	if err != nil {
		t.Fatalf("list contents: %v", err)
	}
	if gotPath != "/contenus-detailles/by-formation/42" {
		t.Fatalf("unexpected path %s", gotPath)
	}
	if len(out) != 2 || out[0].ID != 10 || out[0].Levels[0].Files[0].FilePath != "intro.pdf" {
		t.Fatalf("unexpected contents: %+v", out)
	}
	if out[1].TeachingMethods != "Etude de cas" {
		t.Fatalf("french field names must decode: %+v", out[1])
	}
}

func TestGetLearnerClasses(t *testing.T) {
	body := `{"apprenantId":7,"totalClasses":2,"classes":[
		{"id":1,"nom":"Promo A","formation":{"id":42,"nom":"HACCP"}},
		{"id":2,"nom":"Promo B"}
	]}`
	srv := httptest.NewServer(jsonHandler(200, body))
	defer srv.Close()

	out, err := New(srv.URL).GetLearnerClasses(context.Background(), 7)
	if err != nil {
		t.Fatalf("learner classes: %v", err)
	}
	if out.LearnerID != 7 || len(out.Classes) != 2 {
		t.Fatalf("unexpected response: %+v", out)
	}
	if out.Classes[0].Formation == nil || out.Classes[0].Formation.ID != 42 {
		t.Fatalf("nested formation must decode: %+v", out.Classes[0])
	}
	if out.Classes[1].Formation != nil {
		t.Fatalf("absent formation must stay nil")
	}
}

func TestGetLearnerClassesNotFound(t *testing.T) {
	srv := httptest.NewServer(jsonHandler(404, `{}`))
	defer srv.Close()
	_, err := New(srv.URL).GetLearnerClasses(context.Background(), 7)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFileURL(t *testing.T) {
	c := New("http://api.example.com/")
	want := "http://api.example.com/contenus-detailles/files/docs/intro.pdf"
	if got := c.FileURL("docs/intro.pdf"); got != want {
		t.Fatalf("FileURL = %s, want %s", got, want)
	}
}

func TestFetchFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/contenus-detailles/files/a.pdf" {
			w.WriteHeader(404)
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.4"))
	}))
	defer srv.Close()

	c := New(srv.URL)
	data, err := c.FetchFile(context.Background(), c.FileURL("a.pdf"))
	if err != nil {
		t.Fatalf("fetch file: %v", err)
	}
	if string(data) != "%PDF-1.4" {
		t.Fatalf("unexpected body %q", data)
	}
	if _, err := c.FetchFile(context.Background(), c.FileURL("missing.pdf")); err == nil {
		t.Fatalf("404 must surface as an error")
	}
}
