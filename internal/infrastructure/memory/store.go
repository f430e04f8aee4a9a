// Package memory implementa los repositorios sobre un estado en memoria con transacciones por instantánea:
// Run clona el estado, ejecuta la función y publica el clon solo si no hubo error.
// Las escrituras se serializan, lo que equivale a bloquear todas las filas durante la transacción.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/AgroOrdenes-api/internal/domain/entity"
	"github.com/jhoicas/AgroOrdenes-api/internal/domain/repository"
)

type state struct {
	items     map[string]*entity.InventoryItem
	movements []*entity.Movement
	alerts    []*entity.Alert
	orders    map[string]*entity.Order
	recipes   map[string]*entity.Recipe
	parcels   map[string]*entity.Parcel
	users     map[string]*entity.User
}

func newState() *state {
	return &state{
		items:   make(map[string]*entity.InventoryItem),
		orders:  make(map[string]*entity.Order),
		recipes: make(map[string]*entity.Recipe),
		parcels: make(map[string]*entity.Parcel),
		users:   make(map[string]*entity.User),
	}
}

// clone copia lo mutable; movimientos y catálogos no se modifican nunca, se comparten.
func (s *state) clone() *state {
	c := &state{
		items:     make(map[string]*entity.InventoryItem, len(s.items)),
		movements: append([]*entity.Movement(nil), s.movements...),
		alerts:    make([]*entity.Alert, 0, len(s.alerts)),
		orders:    make(map[string]*entity.Order, len(s.orders)),
		recipes:   s.recipes,
		parcels:   s.parcels,
		users:     s.users,
	}
	for id, it := range s.items {
		c.items[id] = it.Clone()
	}
	for _, a := range s.alerts {
		cp := *a
		c.alerts = append(c.alerts, &cp)
	}
	for id, o := range s.orders {
		c.orders[id] = o.Clone()
	}
	return c
}

// Store estado compartido. writeMu serializa transacciones y escrituras sueltas; mu protege el puntero al estado.
type Store struct {
	writeMu sync.Mutex
	mu      sync.RWMutex
	st      *state
}

func NewStore() *Store {
	return &Store{st: newState()}
}

// view ejecuta fn con el estado publicado (o el de la tx si tx != nil) en modo lectura.
func (s *Store) view(tx *state, fn func(st *state)) {
	if tx != nil {
		fn(tx)
		return
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.st)
}

// update ejecuta fn sobre el estado de la tx o, fuera de una tx, como una transacción de una sola operación.
func (s *Store) update(tx *state, fn func(st *state) error) error {
	if tx != nil {
		return fn(tx)
	}
	return s.transact(fn)
}

func (s *Store) transact(fn func(st *state) error) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.RLock()
	snapshot := s.st.clone()
	s.mu.RUnlock()

	if err := fn(snapshot); err != nil {
		return err
	}
	s.mu.Lock()
	s.st = snapshot
	s.mu.Unlock()
	return nil
}

// Run implementa el TxRunner del inventario.
func (s *Store) Run(ctx context.Context, fn func(
	itemRepo repository.ItemRepository,
	movRepo repository.MovementRepository,
	alertRepo repository.AlertRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.transact(func(st *state) error {
		return fn(&ItemRepo{s: s, tx: st}, &MovementRepo{s: s, tx: st}, &AlertRepo{s: s, tx: st})
	})
}

// RunOrder implementa el TxRunner de órdenes (inventario + órdenes en la misma transacción).
func (s *Store) RunOrder(ctx context.Context, fn func(
	itemRepo repository.ItemRepository,
	movRepo repository.MovementRepository,
	alertRepo repository.AlertRepository,
	orderRepo repository.OrderRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.transact(func(st *state) error {
		return fn(&ItemRepo{s: s, tx: st}, &MovementRepo{s: s, tx: st}, &AlertRepo{s: s, tx: st}, &OrderRepo{s: s, tx: st})
	})
}

// Repositorios fuera de transacción.
func (s *Store) Items() *ItemRepo         { return &ItemRepo{s: s} }
func (s *Store) Movements() *MovementRepo { return &MovementRepo{s: s} }
func (s *Store) Alerts() *AlertRepo       { return &AlertRepo{s: s} }
func (s *Store) Orders() *OrderRepo       { return &OrderRepo{s: s} }
func (s *Store) Recipes() *RecipeReader   { return &RecipeReader{s: s} }
func (s *Store) Parcels() *ParcelReader   { return &ParcelReader{s: s} }
func (s *Store) Users() *UserReader       { return &UserReader{s: s} }

// PutRecipe, PutParcel y PutUser cargan el catálogo externo (solo lectura para el núcleo).
func (s *Store) PutRecipe(r *entity.Recipe) {
	s.catalogWrite(func(st *state) {
		cp := *r
		cp.Details = append([]entity.RecipeDetail(nil), r.Details...)
		st.recipes[r.ID] = &cp
	})
}

func (s *Store) PutParcel(p *entity.Parcel) {
	s.catalogWrite(func(st *state) {
		cp := *p
		st.parcels[p.ID] = &cp
	})
}

func (s *Store) PutUser(u *entity.User) {
	s.catalogWrite(func(st *state) {
		cp := *u
		st.users[u.ID] = &cp
	})
}

// catalogWrite copia los mapas del catálogo antes de escribir: los clones de state los comparten.
func (s *Store) catalogWrite(fn func(st *state)) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.recipes = copyMap(s.st.recipes)
	s.st.parcels = copyMap(s.st.parcels)
	s.st.users = copyMap(s.st.users)
	fn(s.st)
}

func copyMap[V any](m map[string]V) map[string]V {
	out := make(map[string]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
