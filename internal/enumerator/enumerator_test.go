package enumerator

import (
	"context"
	"os"
	"testing"
	"time"
)

func TestSystemEnumeratorListsOwnProcess(t *testing.T) {
	procs, err := NewSystem().Processes(context.Background())
	if err != nil {
		t.Fatalf("processes: %v", err)
	}
	if len(procs) == 0 {
		t.Fatalf("expected at least one process")
	}
	self := int32(os.Getpid())
	found := false
	for _, p := range procs {
		if p.PID == self {
			found = true
			if p.Name == "" {
				t.Fatalf("own process has empty name")
			}
			if p.Exited {
				t.Fatalf("own process reported as exited")
			}
			break
		}
	}
	if !found {
		t.Fatalf("own pid %d not in snapshot", self)
	}
}

func TestSystemPortsUnknownPID(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	// best-effort contract: an unknown pid must not error, only report no port
	if port, ok := NewSystemPorts().ListenPort(ctx, -1); ok {
		t.Fatalf("unexpected port %d for bogus pid", port)
	}
}

func TestFuncAdapters(t *testing.T) {
	e := EnumeratorFunc(func(context.Context) ([]Process, error) {
		return []Process{{PID: 1, Name: "init"}}, nil
	})
	procs, err := e.Processes(context.Background())
	if err != nil || len(procs) != 1 {
		t.Fatalf("enumerator func adapter: %v %v", procs, err)
	}

	r := PortResolverFunc(func(_ context.Context, pid int32) (int, bool) { return 80, pid == 1 })
	if port, ok := r.ListenPort(context.Background(), 1); !ok || port != 80 {
		t.Fatalf("port resolver func adapter: %d %v", port, ok)
	}
}
