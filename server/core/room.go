package core

import "github.com/automoto/friendlyjam/shared/model"

// maxSlots is the number of members a room holds.
const maxSlots = 2

// slot is a member position in a room. During a game the slot outlives its
// connection so the token can reclaim it.
type slot struct {
	client model.ClientID
	token  string
	role   model.Role
}

// roomPhase is either roleSelection or inGame.
type roomPhase interface {
	roomPhase()
}

type roleSelection struct {
	roles map[model.ClientID]model.Role
}

type inGame struct {
	dispatcher model.DispatcherState
	solver     model.SolverState
}

func (*roleSelection) roomPhase() {}
func (*inGame) roomPhase()        {}

// Room is a rendezvous of up to two clients.
type Room struct {
	Code  string
	slots []*slot
	phase roomPhase
}

func newRoom(code string) *Room {
	return &Room{
		Code:  code,
		phase: &roleSelection{roles: make(map[model.ClientID]model.Role)},
	}
}

func (r *Room) info() model.RoomInfo {
	players := make([]model.ClientID, len(r.slots))
	for i, s := range r.slots {
		players[i] = s.client
	}
	return model.RoomInfo{Code: r.Code, Players: players}
}

func (r *Room) slotOf(id model.ClientID) *slot {
	for _, s := range r.slots {
		if s.client == id {
			return s
		}
	}
	return nil
}

func (r *Room) slotByToken(token string) *slot {
	for _, s := range r.slots {
		if s.token == token {
			return s
		}
	}
	return nil
}

func (r *Room) removeSlot(id model.ClientID) {
	for i, s := range r.slots {
		if s.client == id {
			r.slots = append(r.slots[:i], r.slots[i+1:]...)
			return
		}
	}
}
