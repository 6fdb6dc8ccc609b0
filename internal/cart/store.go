package cart

import (
	"strings"
	"sync"

	pkgerrors "github.com/MuzPas1/fleety-mobile/pkg/errors"
)

// Line is a single cart entry. UnitPrice is whole currency units.
type Line struct {
	ItemID         string `json:"item_id"`
	RestaurantID   string `json:"restaurant_id"`
	RestaurantName string `json:"restaurant_name"`
	Name           string `json:"name"`
	UnitPrice      int64  `json:"unit_price"`
	Quantity       int    `json:"quantity"`
	IsVeg          bool   `json:"is_veg"`
}

// Snapshot is a read-only view of one user's cart.
type Snapshot struct {
	RestaurantID   string `json:"restaurant_id"`
	RestaurantName string `json:"restaurant_name"`
	Lines          []Line `json:"lines"`
	Subtotal       int64  `json:"subtotal"`
	ItemCount      int    `json:"item_count"`
}

type userCart struct {
	restaurantID   string
	restaurantName string
	lines          map[string]*Line
	order          []string
}

// Store holds per-user carts in memory. Carts are session state, not
// order history, so nothing here touches the database.
type Store struct {
	mu    sync.Mutex
	carts map[string]*userCart
}

func NewStore() *Store {
	return &Store{carts: make(map[string]*userCart)}
}

// AddItem adds a line to the user's cart. Adding an item that is already
// present increments its quantity. Adding an item from a different
// restaurant than the current cart discards the existing lines first, so
// a cart never mixes restaurants.
func (s *Store) AddItem(userID string, line Line) error {
	if strings.TrimSpace(userID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if strings.TrimSpace(line.ItemID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	if strings.TrimSpace(line.RestaurantID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "restaurant id is required")
	}
	if line.UnitPrice < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "unit price cannot be negative")
	}
	if line.Quantity <= 0 {
		line.Quantity = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.carts[userID]
	if cart != nil && cart.restaurantID != line.RestaurantID {
		cart = nil
	}
	if cart == nil {
		cart = &userCart{
			restaurantID:   line.RestaurantID,
			restaurantName: line.RestaurantName,
			lines:          make(map[string]*Line),
		}
		s.carts[userID] = cart
	}

	if existing, ok := cart.lines[line.ItemID]; ok {
		existing.Quantity += line.Quantity
		return nil
	}

	copied := line
	cart.lines[line.ItemID] = &copied
	cart.order = append(cart.order, line.ItemID)
	return nil
}

// UpdateQuantity sets the quantity of a line. A quantity of zero or less
// removes the line; removing the last line empties the cart.
func (s *Store) UpdateQuantity(userID, itemID string, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.carts[userID]
	if cart == nil {
		return pkgerrors.New(pkgerrors.CodeNotFound, "cart is empty")
	}
	if _, ok := cart.lines[itemID]; !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, "item not in cart")
	}

	if quantity <= 0 {
		s.removeLineLocked(userID, cart, itemID)
		return nil
	}
	cart.lines[itemID].Quantity = quantity
	return nil
}

// RemoveItem deletes a line outright regardless of its quantity.
func (s *Store) RemoveItem(userID, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.carts[userID]
	if cart == nil {
		return pkgerrors.New(pkgerrors.CodeNotFound, "cart is empty")
	}
	if _, ok := cart.lines[itemID]; !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, "item not in cart")
	}
	s.removeLineLocked(userID, cart, itemID)
	return nil
}

// Clear discards the user's cart entirely.
func (s *Store) Clear(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, userID)
}

// Get returns a copy of the user's cart. An absent cart yields an empty
// snapshot rather than an error.
func (s *Store) Get(userID string) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked(userID)
}

// Subtotal returns the sum of unit price times quantity over all lines.
func (s *Store) Subtotal(userID string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	var total int64
	if cart := s.carts[userID]; cart != nil {
		for _, line := range cart.lines {
			total += line.UnitPrice * int64(line.Quantity)
		}
	}
	return total
}

// ItemCount returns the total quantity across all lines, not the number
// of distinct lines.
func (s *Store) ItemCount(userID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int
	if cart := s.carts[userID]; cart != nil {
		for _, line := range cart.lines {
			count += line.Quantity
		}
	}
	return count
}

// IsEmpty reports whether the user has no cart lines.
func (s *Store) IsEmpty(userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	cart := s.carts[userID]
	return cart == nil || len(cart.lines) == 0
}

// RestaurantID returns the restaurant the cart is pinned to, or "" when empty.
func (s *Store) RestaurantID(userID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cart := s.carts[userID]; cart != nil {
		return cart.restaurantID
	}
	return ""
}

func (s *Store) removeLineLocked(userID string, cart *userCart, itemID string) {
	delete(cart.lines, itemID)
	for i, id := range cart.order {
		if id == itemID {
			cart.order = append(cart.order[:i], cart.order[i+1:]...)
			break
		}
	}
	if len(cart.lines) == 0 {
		delete(s.carts, userID)
	}
}

func (s *Store) snapshotLocked(userID string) Snapshot {
	cart := s.carts[userID]
	if cart == nil {
		return Snapshot{Lines: []Line{}}
	}

	snap := Snapshot{
		RestaurantID:   cart.restaurantID,
		RestaurantName: cart.restaurantName,
		Lines:          make([]Line, 0, len(cart.lines)),
	}
	for _, id := range cart.order {
		line := cart.lines[id]
		snap.Lines = append(snap.Lines, *line)
		snap.Subtotal += line.UnitPrice * int64(line.Quantity)
		snap.ItemCount += line.Quantity
	}
	return snap
}
