package report

import (
	"fmt"
	"path/filepath"
	"strings"

	"classpulse/internal/dataset"
	"classpulse/internal/schema"
	"classpulse/internal/stats"
)

// Build runs the whole engine over one table: normalise, aggregate the latest
// week, build the trend and assemble the packet. It either returns a complete
// packet or the first error; there is no partial result.
func Build(t dataset.Table, m schema.Mapping) (p *Packet, err error) {
	defer func() {
		if r := recover(); r != nil {
			p = nil
			err = &stats.AggregationError{Err: fmt.Errorf("unexpected failure: %v", r)}
		}
	}()

	ds, err := stats.Normalize(t, m)
	if err != nil {
		return nil, err
	}

	weekly, err := stats.AggregateWeek(ds.Records, stats.NewNaturalOrder(m.GradeMarkers))
	if err != nil {
		return nil, err
	}

	trend := stats.BuildTrend(ds.Records)

	return Assemble(ds, weekly, trend), nil
}

// BuildFile loads a workbook or CSV export and builds its packet.
func BuildFile(path, sheet string, m schema.Mapping) (*Packet, error) {
	t, err := dataset.Load(path, sheet)
	if err != nil {
		return nil, err
	}
	p, err := Build(t, m)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return p, nil
}

// FileStem names output files for a packet: the input base name plus the target week.
func FileStem(inputPath string, p *Packet) string {
	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	return base + "-" + p.TargetWeek
}
