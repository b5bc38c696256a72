// Package customer resolves the UCN hierarchy from the customer explosion
// report: every row ties a parent UCN to the individual and ship-to UCNs it
// owns. The directory built from those rows answers two questions the
// reconciliation needs: what kind of UCN is this, and which parent does an
// individual or ship-to UCN roll up to.
package customer

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Type classifies a UCN within the customer hierarchy.
type Type string

const (
	TypeParent     Type = "Parent"
	TypeIndividual Type = "Individual"
	TypeShipTo     Type = "Ship-to"
	TypeUnknown    Type = "Unknown"
)

// ExplosionRow is one row of the customer explosion report.
type ExplosionRow struct {
	ParentUCN  string `json:"M_SUPER_PARNT_UNI_CUST_NO"`
	ParentName string `json:"IDN_NAME"`
	IndivUCN   string `json:"INDIV_UCN"`
	ShipToUCN  string `json:"MEMBER_SHIPTO_UCN"`
	MemberName string `json:"CUST_LN1_NM"`
}

// Child is one individual or ship-to entry owned by a parent customer.
type Child struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Customer is one parent UCN with its owned children. Children are kept in
// first-seen order and deduplicated by exact (id, name).
type Customer struct {
	ID       string
	Name     string
	Type     Type
	Children []Child
}

// Directory indexes explosion rows for UCN classification and parent
// resolution.
type Directory struct {
	rows      []ExplosionRow
	parents   map[string]bool
	byIndiv   map[string][]ExplosionRow
	byShipTo  map[string][]ExplosionRow
	customers []*Customer
	byID      map[string]*Customer
}

// BuildDirectory indexes the explosion rows. Row order determines customer
// and child ordering, so callers feed rows in report order.
func BuildDirectory(rows []ExplosionRow) *Directory {
	d := &Directory{
		parents:  make(map[string]bool),
		byIndiv:  make(map[string][]ExplosionRow),
		byShipTo: make(map[string][]ExplosionRow),
		byID:     make(map[string]*Customer),
	}

	for _, row := range rows {
		row.ParentUCN = strings.TrimSpace(row.ParentUCN)
		row.ParentName = strings.TrimSpace(row.ParentName)
		row.IndivUCN = strings.TrimSpace(row.IndivUCN)
		row.ShipToUCN = strings.TrimSpace(row.ShipToUCN)
		row.MemberName = strings.TrimSpace(row.MemberName)
		if row.ParentUCN == "" {
			continue
		}
		d.rows = append(d.rows, row)

		d.parents[row.ParentUCN] = true
		if row.IndivUCN != "" {
			d.byIndiv[row.IndivUCN] = append(d.byIndiv[row.IndivUCN], row)
		}
		if row.ShipToUCN != "" {
			d.byShipTo[row.ShipToUCN] = append(d.byShipTo[row.ShipToUCN], row)
		}

		cust, ok := d.byID[row.ParentUCN]
		if !ok {
			cust = &Customer{ID: row.ParentUCN, Name: row.ParentName, Type: TypeParent}
			d.byID[row.ParentUCN] = cust
			d.customers = append(d.customers, cust)
		}
		if row.IndivUCN != "" {
			cust.addChild(Child{ID: row.IndivUCN, Name: row.MemberName})
		}
		if row.ShipToUCN != "" {
			cust.addChild(Child{ID: row.ShipToUCN, Name: row.MemberName})
		}
	}

	return d
}

func (c *Customer) addChild(child Child) {
	for _, existing := range c.Children {
		if existing == child {
			return
		}
	}
	c.Children = append(c.Children, child)
}

// Customers returns the parent customers in first-seen order.
func (d *Directory) Customers() []Customer {
	out := make([]Customer, len(d.customers))
	for i, c := range d.customers {
		out[i] = *c
	}
	return out
}

// Rows returns the normalized explosion rows.
func (d *Directory) Rows() []ExplosionRow {
	return d.rows
}

// TypeOf classifies a UCN. A UCN that appears as a parent wins over other
// appearances; an individual UCN is one that appears as both the individual
// and ship-to column of the same row (a member billing itself); anything
// else found in the ship-to column is a ship-to.
func (d *Directory) TypeOf(ucn string) Type {
	if ucn == "" {
		return TypeUnknown
	}
	if d.parents[ucn] {
		return TypeParent
	}
	for _, row := range d.byIndiv[ucn] {
		if row.ShipToUCN == ucn {
			return TypeIndividual
		}
	}
	if len(d.byShipTo[ucn]) > 0 {
		return TypeShipTo
	}
	return TypeUnknown
}

// ParentOf resolves an individual or ship-to UCN to its parent UCN. When
// several parents share the UCN, the row whose parent name matches
// customerName wins; otherwise the first row is the deterministic fallback
// and ambiguous is reported true so callers can log it. Parent and unknown
// UCNs resolve to themselves.
func (d *Directory) ParentOf(ucn, customerName string) (parent string, ambiguous bool) {
	switch d.TypeOf(ucn) {
	case TypeIndividual:
		return pickParentRow(d.byIndiv[ucn], customerName)
	case TypeShipTo:
		return pickParentRow(d.byShipTo[ucn], customerName)
	default:
		return ucn, false
	}
}

func pickParentRow(rows []ExplosionRow, customerName string) (string, bool) {
	if len(rows) == 0 {
		return "", false
	}
	if customerName != "" {
		for _, row := range rows {
			if strings.EqualFold(row.ParentName, customerName) {
				return row.ParentUCN, false
			}
		}
	}
	return rows[0].ParentUCN, len(rows) > 1
}

// LoadExplosion reads an explosion report file (a JSON array of rows).
func LoadExplosion(path string) ([]ExplosionRow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read explosion report: %w", err)
	}
	var rows []ExplosionRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode explosion report: %w", err)
	}
	return rows, nil
}
