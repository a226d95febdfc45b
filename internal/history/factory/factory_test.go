package factory

import (
	"testing"

	"github.com/loykin/upmon/internal/history/opensearch"
	"github.com/loykin/upmon/internal/history/sqlite"
)

func TestFactorySQLite(t *testing.T) {
	sink, err := NewSinkFromDSN("sqlite://:memory:", "")
	if err != nil {
		t.Fatalf("sqlite dsn: %v", err)
	}
	if _, ok := sink.(*sqlite.Sink); !ok {
		t.Fatalf("expected sqlite sink, got %T", sink)
	}
}

func TestFactorySQLiteImplicit(t *testing.T) {
	sink, err := NewSinkFromDSN(":memory:", "")
	if err != nil {
		t.Fatalf("implicit sqlite dsn: %v", err)
	}
	if _, ok := sink.(*sqlite.Sink); !ok {
		t.Fatalf("expected sqlite sink, got %T", sink)
	}
}

func TestFactoryOpenSearch(t *testing.T) {
	sink, err := NewSinkFromDSN("opensearch://localhost:9200/my-index", "")
	if err != nil {
		t.Fatalf("opensearch dsn: %v", err)
	}
	if _, ok := sink.(*opensearch.Sink); !ok {
		t.Fatalf("expected opensearch sink, got %T", sink)
	}
}

func TestFactoryEmptyDSN(t *testing.T) {
	if _, err := NewSinkFromDSN("", ""); err == nil {
		t.Fatalf("expected error for empty DSN")
	}
}

func TestFactoryUnsupportedScheme(t *testing.T) {
	if _, err := NewSinkFromDSN("redis://localhost:6379", ""); err == nil {
		t.Fatalf("expected error for unsupported scheme")
	}
}
