package media

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"

	"github.com/zimu-subs/zimu/internal/subtitle"
)

func TestExtractArgs(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		stream  int
		wantMap string
		wantC   string
		wantErr bool
	}{
		{"srt first stream", "out.srt", 0, "0:s:0", "srt", false},
		{"ass second stream", "dir/out.ass", 1, "0:s:1", "ass", false},
		{"ssa maps to ass", "out.ssa", 2, "0:s:2", "ass", false},
		{"unknown extension", "out.vtt", 0, "", "", true},
		{"negative stream", "out.srt", -1, "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kwargs, err := extractArgs(tt.output, ExtractOptions{Stream: tt.stream})
			if tt.wantErr {
				if err == nil {
					t.Error("expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if kwargs["map"] != tt.wantMap {
				t.Errorf("map = %v, want %s", kwargs["map"], tt.wantMap)
			}
			if kwargs["c:s"] != tt.wantC {
				t.Errorf("c:s = %v, want %s", kwargs["c:s"], tt.wantC)
			}
		})
	}
}

func TestExtractArgsUnknownExtensionKind(t *testing.T) {
	_, err := extractArgs("movie.txt", ExtractOptions{})
	if !errors.Is(err, subtitle.ErrUnrecognizedExtension) {
		t.Errorf("expected ErrUnrecognizedExtension, got %v", err)
	}
}

func TestExtractSubtitleMissingMedia(t *testing.T) {
	dir := t.TempDir()
	err := ExtractSubtitle(
		context.Background(),
		filepath.Join(dir, "missing.mkv"),
		filepath.Join(dir, "out.srt"),
		ExtractOptions{},
	)
	if !errors.Is(err, ErrMediaNotFound) {
		t.Errorf("expected ErrMediaNotFound, got %v", err)
	}
}

func TestLocate(t *testing.T) {
	dir := t.TempDir()
	binary := filepath.Join(dir, "ffmpeg")
	if err := os.WriteFile(binary, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatalf("write fake binary: %v", err)
	}

	notFound := func(string) (string, error) {
		return "", errors.New("executable file not found in $PATH")
	}
	onPath := func(string) (string, error) {
		return "/usr/bin/ffmpeg", nil
	}

	tests := []struct {
		name     string
		override string
		lookPath func(string) (string, error)
		want     string
		wantErr  bool
	}{
		{"override wins", binary, onPath, binary, false},
		{"override missing", filepath.Join(dir, "nope"), onPath, "", true},
		{"override is directory", dir, onPath, "", true},
		{"found on path", "", onPath, "/usr/bin/ffmpeg", false},
		{"not on path", "", notFound, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := locate(tt.override, tt.lookPath)
			if tt.wantErr {
				if !errors.Is(err, ErrFFmpegNotFound) {
					t.Errorf("expected ErrFFmpegNotFound, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("locate() = %q, want %q", got, tt.want)
			}
		})
	}
}
