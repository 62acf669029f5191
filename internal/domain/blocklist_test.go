package domain

import (
	"errors"
	"testing"
)

func TestNormalizeSite(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"https://www.Example.com/", "example.com"},
		{"  http://reddit.com  ", "reddit.com"},
		{"www.youtube.com", "youtube.com"},
		{"news.ycombinator.com/", "news.ycombinator.com"},
		{"FACE", "face"},
		{"bücher.de", "xn--bcher-kva.de"},
		{"   ", ""},
		{"https://", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := NormalizeSite(tt.input); got != tt.want {
				t.Errorf("NormalizeSite(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestHostFromURL(t *testing.T) {
	tests := []struct {
		url     string
		want    string
		wantErr bool
	}{
		{url: "https://www.facebook.com/feed", want: "facebook.com"},
		{url: "http://News.YCombinator.com:8080/item?id=1", want: "news.ycombinator.com"},
		{url: "about:blank", wantErr: true},
		{url: "://bad", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			got, err := HostFromURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Fatalf("HostFromURL() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("HostFromURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBlocklist_Add(t *testing.T) {
	var list Blocklist

	list, site, err := list.Add("https://www.Example.com/")
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if site != "example.com" {
		t.Errorf("Add() site = %q, want example.com", site)
	}

	list, _, err = list.Add("example.com")
	if !errors.Is(err, ErrSiteExists) {
		t.Errorf("duplicate Add() error = %v, want ErrSiteExists", err)
	}
	if len(list) != 1 {
		t.Errorf("len(list) = %d after duplicate, want 1", len(list))
	}

	_, _, err = list.Add("  ")
	if !errors.Is(err, ErrEmptySite) {
		t.Errorf("empty Add() error = %v, want ErrEmptySite", err)
	}
}

func TestBlocklist_Remove(t *testing.T) {
	list := Blocklist{"a.com", "b.com", "c.com"}

	next, err := list.Remove("b.com")
	if err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if len(next) != 2 || next[0] != "a.com" || next[1] != "c.com" {
		t.Errorf("Remove() = %v, want [a.com c.com]", next)
	}

	if _, err := next.Remove("b.com"); !errors.Is(err, ErrSiteNotFound) {
		t.Errorf("Remove() missing error = %v, want ErrSiteNotFound", err)
	}
}

func TestBlocklist_Match(t *testing.T) {
	tests := []struct {
		name     string
		list     Blocklist
		host     string
		wantSite string
		want     bool
	}{
		{name: "host contains fragment", list: Blocklist{"face"}, host: "facebook.com", wantSite: "face", want: true},
		{name: "fragment contains host", list: Blocklist{"m.facebook.com"}, host: "facebook.com", wantSite: "m.facebook.com", want: true},
		{name: "exact", list: Blocklist{"reddit.com"}, host: "reddit.com", wantSite: "reddit.com", want: true},
		{name: "unrelated", list: Blocklist{"reddit.com"}, host: "golang.org", want: false},
		{name: "empty host", list: Blocklist{"reddit.com"}, host: "", want: false},
		{name: "empty entry ignored", list: Blocklist{""}, host: "golang.org", want: false},
		{name: "first match wins", list: Blocklist{"tube", "youtube.com"}, host: "youtube.com", wantSite: "tube", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			site, ok := tt.list.Match(tt.host)
			if ok != tt.want || site != tt.wantSite {
				t.Errorf("Match(%q) = (%q, %v), want (%q, %v)", tt.host, site, ok, tt.wantSite, tt.want)
			}
		})
	}
}
