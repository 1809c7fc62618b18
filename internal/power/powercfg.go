package power

import (
	"bufio"
	"bytes"
	"context"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"codeberg.org/mutker/powerplanctl/internal/errors"
	"codeberg.org/mutker/powerplanctl/internal/logger"
)

const (
	powercfgBinary  = "powercfg"
	commandTimeout  = 10 * time.Second
	activeMarkerSep = "*"
)

var schemePattern = regexp.MustCompile(`(?i)Power Scheme GUID:\s+([a-f0-9-]+)\s+\((.+?)\)(\s*\*)?`)

// Powercfg drives the Windows powercfg utility.
type Powercfg struct {
	run    runner
	logger logger.Logger
}

func NewPowercfg() *Powercfg {
	return newPowercfg(execRunner{})
}

func newPowercfg(r runner) *Powercfg {
	return &Powercfg{
		run:    r,
		logger: logger.New("powercfg"),
	}
}

func (p *Powercfg) CurrentPlan(ctx context.Context) (string, error) {
	out, err := p.run.Run(ctx, powercfgBinary, "/getactivescheme")
	if err != nil {
		p.logger.Debug().Err(err).Msg("Failed to query active power scheme")
		return UnknownPlan, errors.New().Wrap(ErrQueryPlan, err)
	}

	m := schemePattern.FindSubmatch(out)
	if m == nil {
		return UnknownPlan, nil
	}

	return string(m[2]), nil
}

func (p *Powercfg) SetPlan(ctx context.Context, id string) error {
	if _, err := p.run.Run(ctx, powercfgBinary, "/setactive", id); err != nil {
		return errors.New().Wrap(ErrSetPlan, err)
	}

	p.logger.Debug().Str("plan", id).Msg("Power scheme activated")

	return nil
}

func (p *Powercfg) ListPlans(ctx context.Context) ([]Plan, error) {
	out, err := p.run.Run(ctx, powercfgBinary, "/list")
	if err != nil {
		return []Plan{}, errors.New().Wrap(ErrListPlans, err)
	}

	return parseSchemes(out), nil
}

func parseSchemes(out []byte) []Plan {
	plans := []Plan{}

	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		m := schemePattern.FindStringSubmatch(scanner.Text())
		if m == nil {
			continue
		}
		plans = append(plans, Plan{
			ID:     strings.ToLower(m[1]),
			Name:   m[2],
			Active: strings.TrimSpace(m[3]) == activeMarkerSep,
		})
	}

	return plans
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	if err != nil {
		return out, errors.New().WithData(ErrCommandFailed, struct {
			Command string
			Output  string
			Error   string
		}{
			Command: name + " " + strings.Join(args, " "),
			Output:  strings.TrimSpace(string(out)),
			Error:   err.Error(),
		})
	}

	return out, nil
}
