// =============================================================================
// 📦 Fixtures: worker pools and playbooks
// =============================================================================
package fixtures

import (
	"errors"

	"github.com/BaSui01/swarmdfs/swarm"
	"github.com/BaSui01/swarmdfs/testutil/mocks"
)

// FanOutPool returns [A, B, C]. A delegates T1 and T2 on T0; B and C only answer.
// A run from T0 yields A:T0@0, B:T1@1, C:T2@1.
func FanOutPool() []swarm.Worker {
	return mocks.Pool(
		mocks.NewMockWorker("A").Delegate("T0", "T1", "T2"),
		mocks.NewMockWorker("B"),
		mocks.NewMockWorker("C"),
	)
}

// FailingRootPool returns [A, B] where A fails T0.
func FailingRootPool() []swarm.Worker {
	return mocks.Pool(
		mocks.NewMockWorker("A").Fail("T0", errors.New("boom")),
		mocks.NewMockWorker("B"),
	)
}

// ResearchPlaybookYAML is a four-worker capability playbook. From plan:
// planner, then searcher on search:papers, writer on write, reviewer failing review.
const ResearchPlaybookYAML = `
name: research
policy: capability
workers:
  - name: planner
    handles: [plan]
    tasks:
      plan:
        output: outline ready
        next_tasks: [search:papers, write]
  - name: searcher
    handles: ["search:*"]
    default:
      output: found 3 papers
  - name: writer
    handles: [write]
    tasks:
      write:
        output: draft v1
        next_tasks: review
  - name: reviewer
    handles: [review]
    tasks:
      review:
        error: reviewer unavailable
`
