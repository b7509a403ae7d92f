package savings

import (
	"github.com/shopspring/decimal"

	"amanah/models"
)

// fakeStore is an in-memory Store for exercising the engine without a
// database. Atomic snapshots the state before the callback and restores it
// when the callback fails, mirroring transaction rollback.
type fakeStore struct {
	children     map[uint][]models.Child
	goals        map[uint]*models.Goal
	portfolios   map[uint]*models.InvestmentPortfolio
	transactions []models.Transaction
	nextTxID     uint
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		children:   make(map[uint][]models.Child),
		goals:      make(map[uint]*models.Goal),
		portfolios: make(map[uint]*models.InvestmentPortfolio),
	}
}

func (f *fakeStore) addChild(parentID, childID uint, name string) {
	f.children[parentID] = append(f.children[parentID], models.Child{ID: childID, ParentID: parentID, Name: name})
}

func (f *fakeStore) ChildrenByParent(parentID uint) ([]models.Child, error) {
	return f.children[parentID], nil
}

func (f *fakeStore) GoalByChild(childID uint) (*models.Goal, error) {
	g, ok := f.goals[childID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *g
	return &cp, nil
}

func (f *fakeStore) PortfolioByChild(childID uint) (*models.InvestmentPortfolio, error) {
	p, ok := f.portfolios[childID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeStore) SavingsBalance(childID uint) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, tx := range f.transactions {
		if tx.ChildID == childID {
			sum = sum.Add(tx.Amount)
		}
	}
	return sum, nil
}

func (f *fakeStore) CreateTransaction(tx *models.Transaction) error {
	f.nextTxID++
	tx.ID = f.nextTxID
	f.transactions = append(f.transactions, *tx)
	return nil
}

func (f *fakeStore) SavePortfolio(p *models.InvestmentPortfolio) error {
	cp := *p
	f.portfolios[p.ChildID] = &cp
	return nil
}

func (f *fakeStore) Atomic(fn func(Store) error) error {
	snapshot := f.clone()
	if err := fn(f); err != nil {
		*f = *snapshot
		return err
	}
	return nil
}

func (f *fakeStore) clone() *fakeStore {
	cp := &fakeStore{
		children:     make(map[uint][]models.Child, len(f.children)),
		goals:        make(map[uint]*models.Goal, len(f.goals)),
		portfolios:   make(map[uint]*models.InvestmentPortfolio, len(f.portfolios)),
		transactions: append([]models.Transaction(nil), f.transactions...),
		nextTxID:     f.nextTxID,
	}
	for id, kids := range f.children {
		cp.children[id] = append([]models.Child(nil), kids...)
	}
	for id, g := range f.goals {
		gc := *g
		cp.goals[id] = &gc
	}
	for id, p := range f.portfolios {
		pc := *p
		cp.portfolios[id] = &pc
	}
	return cp
}
