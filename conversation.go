package seek

import "sync"

// Conversation is the ordered, append-only list of turns. It exclusively
// owns all Turn records; readers receive copies. A Conversation is safe for
// concurrent use so a renderer may read while a stream writes.
type Conversation struct {
	mu     sync.Mutex
	turns  []Turn
	index  map[int]int // turn ID -> position in turns
	nextID int
}

// NewConversation returns an empty Conversation. If greeting is non-empty it
// is added as a completed agent turn.
func NewConversation(greeting string) *Conversation {
	c := &Conversation{index: make(map[int]int), nextID: 1}
	if greeting != "" {
		c.append(Turn{Author: AuthorAgent, Text: greeting, Lifecycle: LifecycleComplete})
	}
	return c
}

// AppendExchange appends a completed user turn holding text and a pending
// agent placeholder. The two ids are consecutive.
func (c *Conversation) AppendExchange(text string) (userID, agentID int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	userID = c.append(Turn{Author: AuthorUser, Text: text, Lifecycle: LifecycleComplete})
	agentID = c.append(Turn{Author: AuthorAgent, Lifecycle: LifecyclePending})
	return userID, agentID
}

func (c *Conversation) append(t Turn) int {
	t.ID = c.nextID
	c.nextID++
	c.index[t.ID] = len(c.turns)
	c.turns = append(c.turns, t)
	return t.ID
}

// Update applies fn to the turn with the given id and returns the result.
// It returns false, without calling fn, when the id is unknown or the turn is
// already terminal.
func (c *Conversation) Update(id int, fn func(*Turn)) (Turn, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	i, ok := c.index[id]
	if !ok || c.turns[i].Lifecycle.Terminal() {
		return Turn{}, false
	}
	fn(&c.turns[i])
	c.turns[i].ID = id
	return c.turns[i].Clone(), true
}

// Turn returns a copy of the turn with the given id.
func (c *Conversation) Turn(id int) (Turn, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	i, ok := c.index[id]
	if !ok {
		return Turn{}, false
	}
	return c.turns[i].Clone(), true
}

// Turns returns a snapshot of all turns in order.
func (c *Conversation) Turns() []Turn {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Turn, len(c.turns))
	for i, t := range c.turns {
		out[i] = t.Clone()
	}
	return out
}

// Views returns the presentation form of all turns in order.
func (c *Conversation) Views() []TurnView {
	turns := c.Turns()
	out := make([]TurnView, len(turns))
	for i, t := range turns {
		out[i] = t.View()
	}
	return out
}

// Len returns the number of turns.
func (c *Conversation) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.turns)
}
