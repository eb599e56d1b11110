package tenantservice

// Customer тенант (бизнес) платформы
type Customer struct {
	ID       int64  `json:"id"`
	Slug     string `json:"slug"`
	Name     string `json:"name"`
	Currency string `json:"currency"` // ISO 4217, например "EUR"
}

// Branch филиал компании
type Branch struct {
	ID         int64  `json:"id"`
	CustomerID int64  `json:"customerId"`
	Name       string `json:"name"`
	Timezone   string `json:"timezone"` // IANA, например "Europe/Berlin"; пустая строка = UTC

	// ID активных профессионалов, назначенных на филиал
	ProfessionalIDs []int64 `json:"professionalIds"`
}

// Service услуга компании
type Service struct {
	ID              int64         `json:"id"`
	CustomerID      int64         `json:"customerId"`
	Name            string        `json:"name"`
	DurationMinutes int           `json:"durationMinutes"`
	Prices          []BranchPrice `json:"prices"`
}

// BranchPrice цена услуги на конкретном филиале
type BranchPrice struct {
	BranchID int64   `json:"branchId"`
	Price    float64 `json:"price"`
}

// Professional сотрудник компании
type Professional struct {
	ID         int64   `json:"id"`
	CustomerID int64   `json:"customerId"`
	Name       string  `json:"name"`
	Active     bool    `json:"active"`
	BranchIDs  []int64 `json:"branchIds"`
}

// PriceForBranch возвращает активную цену услуги для филиала
func (s *Service) PriceForBranch(branchID int64) (float64, bool) {
	for _, p := range s.Prices {
		if p.BranchID == branchID {
			return p.Price, true
		}
	}
	return 0, false
}

// AvailableAtBranch проверяет, что услуга предоставляется на филиале
func (s *Service) AvailableAtBranch(branchID int64) bool {
	_, ok := s.PriceForBranch(branchID)
	return ok
}

// AssignedToBranch проверяет, что профессионал назначен на филиал
func (p *Professional) AssignedToBranch(branchID int64) bool {
	for _, id := range p.BranchIDs {
		if id == branchID {
			return true
		}
	}
	return false
}
