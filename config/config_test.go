package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sequentialYAML = `
agents:
  - id: researcher
    role: Researcher
    goal: Find facts
  - id: writer
    role: Writer
    goal: Write it up

workflow:
  type: sequential
  steps:
    - agent: researcher
    - agent: writer
`

const parallelYAML = `
agents:
  - id: backend
    role: Backend
    goal: Design API
  - id: frontend
    role: Frontend
    goal: Design UI
  - id: reviewer
    role: Reviewer
    goal: Review both

workflow:
  type: parallel
  branches: [backend, frontend]
  then:
    agent: reviewer
    feedback_loop:
      enabled: true
`

func TestParse_Sequential(t *testing.T) {
	cfg, err := Parse([]byte(sequentialYAML))
	require.NoError(t, err)

	assert.Equal(t, TypeSequential, cfg.Workflow.Type)
	assert.Len(t, cfg.Workflow.Steps, 2)
	assert.Equal(t, "researcher", cfg.Workflow.Steps[0].Agent)

	a, ok := cfg.Agent("writer")
	assert.True(t, ok)
	assert.Equal(t, "Writer", a.Role)

	_, ok = cfg.Agent("ghost")
	assert.False(t, ok)
}

func TestParse_ParallelAppliesFeedbackDefaults(t *testing.T) {
	cfg, err := Parse([]byte(parallelYAML))
	require.NoError(t, err)

	fl := cfg.Workflow.Then.FeedbackLoop
	require.NotNil(t, fl)
	assert.Equal(t, DefaultApprovalKeyword, fl.ApprovalKeyword)
	assert.Equal(t, 3, fl.MaxIterations)
	// Unset targets default to every branch.
	assert.Equal(t, []string{"backend", "frontend"}, fl.FeedbackTargets)
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := Parse([]byte("agents: ["))
	assert.Error(t, err)
}

func TestValidate_UnknownStepAgent(t *testing.T) {
	_, err := Parse([]byte(`
agents:
  - id: a
    role: A
    goal: g
workflow:
  type: sequential
  steps:
    - agent: missing
`))
	assert.ErrorContains(t, err, "unknown agent missing")
}

func TestValidate_DuplicateAgentID(t *testing.T) {
	_, err := Parse([]byte(`
agents:
  - id: a
    role: A
    goal: g
  - id: a
    role: A2
    goal: g
workflow:
  type: sequential
  steps:
    - agent: a
`))
	assert.ErrorContains(t, err, "duplicate agent id")
}

func TestValidate_ParallelRequiresAggregator(t *testing.T) {
	_, err := Parse([]byte(`
agents:
  - id: a
    role: A
    goal: g
workflow:
  type: parallel
  branches: [a]
`))
	assert.ErrorContains(t, err, "aggregator")
}

func TestValidate_FeedbackIterationBounds(t *testing.T) {
	_, err := Parse([]byte(`
agents:
  - id: a
    role: A
    goal: g
  - id: r
    role: R
    goal: g
workflow:
  type: parallel
  branches: [a]
  then:
    agent: r
    feedback_loop:
      enabled: true
      max_iterations: 11
`))
	assert.ErrorContains(t, err, "max_iterations")
}

func TestValidate_FeedbackTargetMustBeBranch(t *testing.T) {
	_, err := Parse([]byte(`
agents:
  - id: a
    role: A
    goal: g
  - id: r
    role: R
    goal: g
workflow:
  type: parallel
  branches: [a]
  then:
    agent: r
    feedback_loop:
      enabled: true
      max_iterations: 2
      feedback_targets: [r]
`))
	assert.Error(t, err)
}

func TestValidate_UnknownWorkflowType(t *testing.T) {
	_, err := Parse([]byte(`
agents:
  - id: a
    role: A
    goal: g
workflow:
  type: ring
`))
	assert.ErrorContains(t, err, "unknown workflow type")
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "workflow.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sequentialYAML), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, cfg.Agents, 2)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
