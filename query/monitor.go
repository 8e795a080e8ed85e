package query

import "github.com/openclass/tutorbot/core"

// QueryMonitor provides hooks to observe the resolution process.
// Implement this interface to track intermediate steps while answering.
type QueryMonitor interface {
	Start(question string)
	AfterRewrite(standalone string)
	AfterRetrieval(matches []core.Match)
	AfterGeneration(answer string)
	Finish(answer *core.StructuredAnswer)
}

// noopMonitor is a no-op implementation of QueryMonitor
type noopMonitor struct{}

var _ QueryMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                  {}
func (n *noopMonitor) AfterRewrite(_ string)           {}
func (n *noopMonitor) AfterRetrieval(_ []core.Match)   {}
func (n *noopMonitor) AfterGeneration(_ string)        {}
func (n *noopMonitor) Finish(_ *core.StructuredAnswer) {}
