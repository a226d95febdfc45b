package enumerator

import (
	"context"
	"time"

	gnet "github.com/shirou/gopsutil/v4/net"
	"github.com/shirou/gopsutil/v4/process"
)

// System enumerates processes via gopsutil. Entries whose name cannot be
// read (already gone, or permission denied) are skipped rather than failing
// the whole snapshot.
type System struct{}

func NewSystem() System { return System{} }

func (System) Processes(ctx context.Context) ([]Process, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Process, 0, len(procs))
	for _, p := range procs {
		name, err := p.NameWithContext(ctx)
		if err != nil || name == "" {
			continue
		}
		entry := Process{PID: p.Pid, Name: name}
		if ct, err := p.CreateTimeWithContext(ctx); err == nil && ct > 0 {
			entry.StartTime = time.UnixMilli(ct)
		}
		if exe, err := p.ExeWithContext(ctx); err == nil {
			entry.ExePath = exe
		}
		if running, err := p.IsRunningWithContext(ctx); err == nil && !running {
			entry.Exited = true
		}
		out = append(out, entry)
	}
	return out, nil
}

// SystemPorts resolves listening TCP ports via gopsutil connection tables.
type SystemPorts struct{}

func NewSystemPorts() SystemPorts { return SystemPorts{} }

func (SystemPorts) ListenPort(ctx context.Context, pid int32) (int, bool) {
	conns, err := gnet.ConnectionsPidWithContext(ctx, "tcp", pid)
	if err != nil {
		return 0, false
	}
	for _, c := range conns {
		if c.Status == "LISTEN" && c.Laddr.Port > 0 {
			return int(c.Laddr.Port), true
		}
	}
	return 0, false
}
