// Package dummydb provides in-memory repositories for tests.
package dummydb

import (
	"sync"

	"github.com/google/uuid"

	"github.com/testxbusiness/csromawebapp/core/balance"
	"github.com/testxbusiness/csromawebapp/core/club"
	"github.com/testxbusiness/csromawebapp/core/event"
	"github.com/testxbusiness/csromawebapp/core/fee"
	"github.com/testxbusiness/csromawebapp/core/message"
	"github.com/testxbusiness/csromawebapp/core/user"
)

type (
	DB struct {
		user    *userTable
		club    *clubTable
		fee     *feeTable
		event   *eventTable
		message *messageTable
		balance *balanceTable
	}

	userTable struct {
		sync.RWMutex
		table map[uuid.UUID]*user.User
	}

	pairKey struct {
		a, b uuid.UUID
	}

	clubTable struct {
		sync.RWMutex
		seasons    map[uuid.UUID]*club.Season
		activities map[uuid.UUID]*club.Activity
		gyms       map[uuid.UUID]*club.Gym
		teams      map[uuid.UUID]*club.Team
		members    map[pairKey]*club.TeamMember // (team, profile)
		coaches    map[pairKey]*club.TeamCoach  // (team, coach)
	}

	feeTable struct {
		sync.RWMutex
		fees         map[uuid.UUID]*fee.MembershipFee
		predefined   map[uuid.UUID]*fee.PredefinedInstallment
		installments map[uuid.UUID]*fee.FeeInstallment
	}

	eventTable struct {
		sync.RWMutex
		events map[uuid.UUID]*event.Event
		teams  map[uuid.UUID][]uuid.UUID // event -> team ids
	}

	messageTable struct {
		sync.RWMutex
		messages   map[uuid.UUID]*message.Message
		recipients map[pairKey]*message.Recipient // (message, profile)
	}

	balanceTable struct {
		sync.RWMutex
		expenses map[uuid.UUID]*balance.Expense
	}
)

func Open() (*DB, error) {
	db := &DB{
		user: &userTable{table: make(map[uuid.UUID]*user.User)},
		club: &clubTable{
			seasons:    make(map[uuid.UUID]*club.Season),
			activities: make(map[uuid.UUID]*club.Activity),
			gyms:       make(map[uuid.UUID]*club.Gym),
			teams:      make(map[uuid.UUID]*club.Team),
			members:    make(map[pairKey]*club.TeamMember),
			coaches:    make(map[pairKey]*club.TeamCoach),
		},
		fee: &feeTable{
			fees:         make(map[uuid.UUID]*fee.MembershipFee),
			predefined:   make(map[uuid.UUID]*fee.PredefinedInstallment),
			installments: make(map[uuid.UUID]*fee.FeeInstallment),
		},
		event: &eventTable{
			events: make(map[uuid.UUID]*event.Event),
			teams:  make(map[uuid.UUID][]uuid.UUID),
		},
		message: &messageTable{
			messages:   make(map[uuid.UUID]*message.Message),
			recipients: make(map[pairKey]*message.Recipient),
		},
		balance: &balanceTable{expenses: make(map[uuid.UUID]*balance.Expense)},
	}
	return db, nil
}
