package selection

import (
	"context"

	"github.com/looplab/fsm"
)

// Level identifies one of the three selectors.
type Level int

const (
	Country Level = iota
	State
	City
)

// Levels lists all levels in dependency order.
var Levels = []Level{Country, State, City}

func (l Level) String() string {
	switch l {
	case Country:
		return "country"
	case State:
		return "state"
	case City:
		return "city"
	}
	return "unknown"
}

// Plural returns the label used for the level's option list.
func (l Level) Plural() string {
	switch l {
	case Country:
		return "countries"
	case State:
		return "states"
	case City:
		return "cities"
	}
	return "unknown"
}

// Title returns the capitalized level name.
func (l Level) Title() string {
	switch l {
	case Country:
		return "Country"
	case State:
		return "State"
	case City:
		return "City"
	}
	return "Unknown"
}

func (l Level) valid() bool {
	return l >= Country && l <= City
}

// Status is the load status of a level's option list.
type Status string

const (
	Idle    Status = "idle"
	Loading Status = "loading"
	Loaded  Status = "loaded"
	Failed  Status = "failed"
)

const (
	eventStart   = "start"
	eventSucceed = "succeed"
	eventFail    = "fail"
	eventReset   = "reset"
)

// levelState owns one level's options, load status and the fetch
// currently in flight for it.
type levelState struct {
	fsm     *fsm.FSM
	options []string
	token   uint64
	cancel  context.CancelFunc

	// scope of the most recent fetch
	country string
	state   string
}

func newLevelState() *levelState {
	ls := &levelState{}
	drop := func(context.Context, *fsm.Event) { ls.options = nil }
	ls.fsm = fsm.NewFSM(
		string(Idle),
		fsm.Events{
			{Name: eventStart, Src: []string{string(Idle)}, Dst: string(Loading)},
			{Name: eventSucceed, Src: []string{string(Loading)}, Dst: string(Loaded)},
			{Name: eventFail, Src: []string{string(Loading)}, Dst: string(Failed)},
			{Name: eventReset, Src: []string{string(Loading), string(Loaded), string(Failed)}, Dst: string(Idle)},
		},
		fsm.Callbacks{
			"enter_" + string(Idle):   drop,
			"enter_" + string(Failed): drop,
		},
	)
	return ls
}

func (ls *levelState) status() Status {
	return Status(ls.fsm.Current())
}

// fire applies event if the current status allows it.
func (ls *levelState) fire(event string) {
	if !ls.fsm.Can(event) {
		return
	}
	_ = ls.fsm.Event(context.Background(), event)
}

// abandon cancels any in-flight fetch, invalidates its token and returns
// the level to idle with an empty list.
func (ls *levelState) abandon() {
	if ls.cancel != nil {
		ls.cancel()
		ls.cancel = nil
	}
	ls.token++
	ls.fire(eventReset)
	ls.options = nil
}

// begin starts a new fetch scoped to (country, state) and returns the
// request describing it.
func (ls *levelState) begin(parent context.Context, level Level, country, state string) Request {
	ls.abandon()
	ctx, cancel := context.WithCancel(parent)
	ls.cancel = cancel
	ls.country = country
	ls.state = state
	ls.fire(eventStart)
	return Request{
		Level:   level,
		Token:   ls.token,
		Country: country,
		State:   state,
		Ctx:     ctx,
	}
}

// release frees the context of a completed fetch.
func (ls *levelState) release() {
	if ls.cancel != nil {
		ls.cancel()
		ls.cancel = nil
	}
}
