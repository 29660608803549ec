package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"code-analyzer/src/model"
)

func report(id string, at time.Time, cc uint) *model.AnalysisReport {
	svc := model.NewType(model.TypeClass, "Service")
	run := model.NewMethod("Run")
	run.CyclomaticComplexity = cc
	svc.Methods = append(svc.Methods, run)
	ns := model.NewNamespace("App")
	ns.Types = append(ns.Types, svc)

	helper := model.NewType(model.TypeStruct, "Point")
	helper.Methods = append(helper.Methods, model.NewMethod("Length"))
	global := model.NewNamespace("")
	global.Types = append(global.Types, helper)

	return &model.AnalysisReport{
		RunID:       id,
		RootPath:    "/src",
		GeneratedAt: at,
		Files: []model.FileMetrics{
			{Path: "Service.cs", Hash: "00000000000000aa", LineCount: 30, Namespaces: []*model.Namespace{global, ns}},
			{Path: "Broken.cs", Error: "unexpected token"},
		},
		FileErrors: 1,
		Summary:    model.ReportSummary{DebtScore: 1.5},
		Issues: []model.DebtIssue{{
			Category: model.CategoryComplexity, Subcategory: "cyclomatic_complexity", Severity: model.SeverityHigh,
			FilePath: "Service.cs", StartLine: 3, EndLine: 20, EntityName: "App.Service.Run",
		}},
	}
}

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "runs", "analysis.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpen_Validation(t *testing.T) {
	_, err := Open("  ")
	require.Error(t, err)

	dir := t.TempDir()
	_, err = Open(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is a directory")
}

func TestSaveAndRuns(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	first := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, s.Save(ctx, report("a", first, 4)))
	require.NoError(t, s.Save(ctx, report("b", first.Add(time.Hour), 9)))

	runs, err := s.Runs(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "b", runs[0].ID)
	assert.Equal(t, 2, runs[0].Files)
	assert.Equal(t, 1, runs[0].FileErrors)
	assert.Equal(t, 1, runs[0].Issues)
	assert.InDelta(t, 1.5, runs[0].DebtScore, 1e-9)
	assert.True(t, first.Equal(runs[1].GeneratedAt))

	runs, err = s.Runs(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, runs, 1)

	cc, err := s.MethodComplexity(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, map[string]uint{
		"Service.cs:App.Service.Run": 4,
		"Service.cs:Point.Length":    model.BaseComplexity,
	}, cc)
}

func TestSave_ReplacesRun(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, s.Save(ctx, report("same", at, 4)))
	require.NoError(t, s.Save(ctx, report("same", at, 7)))

	runs, err := s.Runs(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)

	cc, err := s.MethodComplexity(ctx, "same")
	require.NoError(t, err)
	assert.Len(t, cc, 2)
	assert.Equal(t, uint(7), cc["Service.cs:App.Service.Run"])
}

func TestReopen_KeepsRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "analysis.db")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Save(context.Background(), report("x", time.Now(), 3)))
	require.NoError(t, s.Close())

	_, err = os.Stat(path)
	require.NoError(t, err)

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	runs, err := s.Runs(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "x", runs[0].ID)
}
