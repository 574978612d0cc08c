// Package tui is the interactive review surface: scan a snapshot, walk
// the classified text elements, rewrite them one by one or in batch,
// and apply the results back into the document.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"copytune/internal/document"
	"copytune/internal/optimize"
	"copytune/internal/prompt"
	"copytune/internal/store"
)

type view int

const (
	viewList view = iota
	viewDetail
	viewHistory
	viewHelp
)

type App struct {
	ctx     context.Context
	width   int
	height  int
	view    view
	state   *state
	store   *store.Store
	opt     *optimize.Optimizer
	snap    *document.Snapshot
	program *tea.Program

	quitting bool
}

func NewApp(ctx context.Context, snap *document.Snapshot, st *store.Store, opt *optimize.Optimizer) (*App, error) {
	items, err := snap.Scan()
	if err != nil {
		return nil, err
	}
	return &App{
		ctx:   ctx,
		view:  viewList,
		state: newState(items),
		store: st,
		opt:   opt,
		snap:  snap,
	}, nil
}

// SetProgram hands the running program to the app so background work
// can push progress messages into the event loop.
func (a *App) SetProgram(p *tea.Program) {
	a.program = p
}

func (a *App) Init() tea.Cmd {
	return tea.WindowSize()
}

type optimizeDoneMsg struct {
	index  int
	result string
	err    error
}

type batchProgressMsg struct {
	done  int
	total int
}

type batchDoneMsg struct {
	results []optimize.BatchResult
}

type appliedMsg struct {
	index int
	err   error
}

type revertedMsg struct {
	index int
	err   error
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a, a.handleKey(msg)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height

	case optimizeDoneMsg:
		a.state.busy = false
		if msg.err != nil {
			a.state.errs[msg.index] = msg.err.Error()
			a.state.status = "优化失败：" + msg.err.Error()
			return a, nil
		}
		delete(a.state.errs, msg.index)
		item := a.state.items[msg.index]
		item.Optimized = msg.result
		item.Applied = false
		a.state.status = "优化完成"
		a.recordHistory(item)

	case batchProgressMsg:
		a.state.batchDone = msg.done
		a.state.batchTotal = msg.total

	case batchDoneMsg:
		a.state.busy = false
		failed := 0
		// history inserts run here, in the event loop, so the store is
		// mutated one record at a time
		for i, res := range msg.results {
			if res.Failed() {
				failed++
				a.state.errs[i] = res.Err
				continue
			}
			delete(a.state.errs, i)
			item := a.state.items[i]
			item.Optimized = res.Optimized
			item.Applied = false
			a.recordHistory(item)
		}
		a.state.status = batchSummary(len(msg.results)-failed, failed)

	case appliedMsg:
		if msg.err != nil {
			a.state.status = "写回失败：" + msg.err.Error()
			return a, nil
		}
		a.state.items[msg.index].Applied = true
		a.state.status = "已写回快照"
		a.recordHistory(a.state.items[msg.index])

	case revertedMsg:
		if msg.err != nil {
			a.state.status = "还原失败：" + msg.err.Error()
			return a, nil
		}
		a.state.items[msg.index].Applied = false
		a.state.status = "已还原原文"
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, keys.Quit):
		if a.view != viewList {
			a.view = viewList
			return nil
		}
		a.quitting = true
		return tea.Quit

	case key.Matches(msg, keys.Help):
		a.view = viewHelp
		return nil

	case key.Matches(msg, keys.History):
		a.view = viewHistory
		return nil
	}

	if a.state.busy {
		return nil
	}

	switch a.view {
	case viewList, viewDetail:
		return a.handleItemKey(msg)
	}
	return nil
}

func (a *App) handleItemKey(msg tea.KeyMsg) tea.Cmd {
	s := a.state
	switch {
	case key.Matches(msg, keys.Up):
		if s.cursor > 0 {
			s.cursor--
		}

	case key.Matches(msg, keys.Down):
		if s.cursor < len(s.items)-1 {
			s.cursor++
		}

	case key.Matches(msg, keys.Enter):
		if len(s.items) > 0 {
			a.view = viewDetail
		}

	case key.Matches(msg, keys.Optimize):
		if len(s.items) > 0 {
			return a.optimizeCurrent()
		}

	case key.Matches(msg, keys.Batch):
		if len(s.items) > 0 {
			return a.optimizeAll()
		}

	case key.Matches(msg, keys.Apply):
		if len(s.items) > 0 {
			return a.applyCurrent()
		}

	case key.Matches(msg, keys.Revert):
		if len(s.items) > 0 {
			return a.revertCurrent()
		}
	}
	return nil
}

func (a *App) optimizeCurrent() tea.Cmd {
	s := a.state
	idx := s.cursor
	item := s.items[idx]
	req := a.buildRequest(item)

	s.busy = true
	s.status = "优化中..."
	return func() tea.Msg {
		result, err := a.opt.Optimize(a.ctx, req)
		return optimizeDoneMsg{index: idx, result: result, err: err}
	}
}

func (a *App) optimizeAll() tea.Cmd {
	s := a.state
	requests := make([]optimize.Request, len(s.items))
	for i, item := range s.items {
		requests[i] = a.buildRequest(item)
	}

	s.busy = true
	s.batchDone = 0
	s.batchTotal = len(requests)
	s.status = "批量优化中..."
	return func() tea.Msg {
		results := a.opt.Batch(a.ctx, requests, func(done, total int) {
			if a.program != nil {
				a.program.Send(batchProgressMsg{done: done, total: total})
			}
		})
		return batchDoneMsg{results: results}
	}
}

func (a *App) applyCurrent() tea.Cmd {
	s := a.state
	idx := s.cursor
	item := s.items[idx]
	if item.Optimized == "" || item.Applied {
		return nil
	}
	return func() tea.Msg {
		if err := a.snap.SetText(item.ID, item.Optimized); err != nil {
			return appliedMsg{index: idx, err: err}
		}
		return appliedMsg{index: idx, err: a.snap.Save()}
	}
}

// revertCurrent restores the original text in the snapshot after an
// apply. The item keeps its suggestion so it can be re-applied.
func (a *App) revertCurrent() tea.Cmd {
	s := a.state
	idx := s.cursor
	item := s.items[idx]
	if !item.Applied {
		return nil
	}
	return func() tea.Msg {
		if err := a.snap.SetText(item.ID, item.Original); err != nil {
			return revertedMsg{index: idx, err: err}
		}
		return revertedMsg{index: idx, err: a.snap.Save()}
	}
}

func (a *App) buildRequest(item *document.TextItem) optimize.Request {
	settings := a.store.Settings()
	agent := a.store.ActiveAgent()

	terms := append([]prompt.BrandTerm{}, settings.GlobalBrandTerms...)
	terms = append(terms, agent.BrandTerms...)
	rules := append([]prompt.Rule{}, settings.GlobalRules...)
	rules = append(rules, agent.Rules...)

	return optimize.Request{
		Text:         item.Original,
		Category:     item.Category,
		Context:      item.Context,
		BrandTerms:   terms,
		Rules:        rules,
		SystemPrompt: agent.SystemPrompt,
		Reference:    a.store.Reference(item.Category),
	}
}

// recordHistory persists one rewrite. Persistence failures are already
// logged by the store.
func (a *App) recordHistory(item *document.TextItem) {
	rec := store.NewHistoryRecord(item.ID, item.Name, item.Original, item.Optimized, item.Category, item.Applied)
	_ = a.store.AddHistory(a.ctx, rec)
}

func (a *App) View() string {
	if a.quitting {
		return ""
	}

	switch a.view {
	case viewDetail:
		return a.renderDetail()
	case viewHistory:
		return a.renderHistory()
	case viewHelp:
		return a.renderHelp()
	default:
		return a.renderList()
	}
}
