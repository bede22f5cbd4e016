package main

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"

	"github.com/stephenplusplus/gcloud-datastore-schema/pkg/domain"
)

// printer writes human readable reports, coloured when w is a terminal.
type printer struct {
	out *termenv.Output
}

func newPrinter(w io.Writer) *printer {
	return &printer{out: termenv.NewOutput(w)}
}

func (p *printer) ok(format string, args ...any) {
	mark := p.out.String("✔").Foreground(p.out.Color("#22c55e"))
	fmt.Fprintf(p.out, "%s %s\n", mark, fmt.Sprintf(format, args...))
}

func (p *printer) skip(format string, args ...any) {
	mark := p.out.String("-").Foreground(p.out.Color("#a1a1aa"))
	fmt.Fprintf(p.out, "%s %s\n", mark, fmt.Sprintf(format, args...))
}

func (p *printer) fail(format string, args ...any) {
	mark := p.out.String("✘").Foreground(p.out.Color("#ef4444")).Bold()
	fmt.Fprintf(p.out, "%s %s\n", mark, fmt.Sprintf(format, args...))
}

func (p *printer) violation(msg string) {
	fmt.Fprintf(p.out, "    %s\n", p.out.String(msg).Foreground(p.out.Color("#fca5a5")))
}

// violations prints an aggregate save failure grouped by kind.
func (p *printer) violations(v *domain.ViolationError) {
	p.fail("%s (%s)", v.Message, v.Code)
	for _, ke := range v.Errors {
		fmt.Fprintf(p.out, "  %s\n", p.out.String(ke.Kind).Bold())
		for _, msg := range ke.Errors {
			p.violation(msg)
		}
	}
}
