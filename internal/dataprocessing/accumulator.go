package dataprocessing

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/burevuh-next/logistics-analyzer/pkg/contracts/domain"
)

// minPartitionSize keeps small tables on a single fold
const minPartitionSize = 2048

// kpiAcc folds dataset-wide totals
type kpiAcc struct {
	count    int
	cost     float64
	distance int64
	weight   int64
	cpkSum   float64
	cpkN     int
	cpkgSum  float64
	cpkgN    int
}

func (a *kpiAcc) add(r domain.ShipmentRecord) {
	a.count++
	a.cost += r.CostRub
	a.distance += int64(r.DistanceKm)
	a.weight += int64(r.WeightKg)
	if r.DistanceKm > 0 {
		a.cpkSum += r.CostPerKm().Value
		a.cpkN++
	}
	if r.WeightKg > 0 {
		a.cpkgSum += r.CostPerKg().Value
		a.cpkgN++
	}
}

func (a *kpiAcc) merge(o kpiAcc) {
	a.count += o.count
	a.cost += o.cost
	a.distance += o.distance
	a.weight += o.weight
	a.cpkSum += o.cpkSum
	a.cpkN += o.cpkN
	a.cpkgSum += o.cpkgSum
	a.cpkgN += o.cpkgN
}

// carrierAcc folds the shipments of one carrier
type carrierAcc struct {
	first    int
	count    int
	cost     float64
	distance int64
	weight   int64
	costs    []float64
	cpkSum   float64
	cpkN     int
}

func (a *carrierAcc) add(r domain.ShipmentRecord) {
	a.count++
	a.cost += r.CostRub
	a.distance += int64(r.DistanceKm)
	a.weight += int64(r.WeightKg)
	a.costs = append(a.costs, r.CostRub)
	if r.DistanceKm > 0 {
		a.cpkSum += r.CostPerKm().Value
		a.cpkN++
	}
}

func (a *carrierAcc) merge(o *carrierAcc) {
	a.first = min(a.first, o.first)
	a.count += o.count
	a.cost += o.cost
	a.distance += o.distance
	a.weight += o.weight
	a.costs = append(a.costs, o.costs...)
	a.cpkSum += o.cpkSum
	a.cpkN += o.cpkN
}

// cheapest is the lowest cost-per-km record seen on a route
type cheapest struct {
	index     int
	record    domain.ShipmentRecord
	costPerKm float64
}

// beats reports whether c should replace o; ties go to the earlier record
func (c *cheapest) beats(o *cheapest) bool {
	if o == nil {
		return true
	}
	if c.costPerKm != o.costPerKm {
		return c.costPerKm < o.costPerKm
	}
	return c.index < o.index
}

// routeAcc folds the shipments of one ordered city pair
type routeAcc struct {
	first    int
	count    int
	cost     float64
	distance int64
	cpkSum   float64
	cpkN     int
	best     *cheapest
}

func (a *routeAcc) add(i int, r domain.ShipmentRecord) {
	a.count++
	a.cost += r.CostRub
	a.distance += int64(r.DistanceKm)
	if r.DistanceKm <= 0 {
		return
	}
	cpk := r.CostPerKm().Value
	a.cpkSum += cpk
	a.cpkN++
	if c := (&cheapest{index: i, record: r, costPerKm: cpk}); c.beats(a.best) {
		a.best = c
	}
}

func (a *routeAcc) merge(o *routeAcc) {
	a.first = min(a.first, o.first)
	a.count += o.count
	a.cost += o.cost
	a.distance += o.distance
	a.cpkSum += o.cpkSum
	a.cpkN += o.cpkN
	if o.best != nil && o.best.beats(a.best) {
		a.best = o.best
	}
}

// monthAcc folds the shipments of one calendar month
type monthAcc struct {
	count  int
	cost   float64
	weight int64
}

// partial holds every accumulator for one contiguous slice of a table.
// Indices stored in it are global table positions, so merged partials keep
// first-encounter order regardless of how the table was split.
type partial struct {
	kpi      kpiAcc
	carriers map[string]*carrierAcc
	routes   map[domain.RouteKey]*routeAcc
	months   [13]monthAcc
	hasMonth bool
}

func newPartial() *partial {
	return &partial{
		carriers: make(map[string]*carrierAcc),
		routes:   make(map[domain.RouteKey]*routeAcc),
	}
}

// fold adds records, the first of which sits at table position offset
func (p *partial) fold(records []domain.ShipmentRecord, offset int) {
	for j, r := range records {
		i := offset + j
		p.kpi.add(r)

		c, ok := p.carriers[r.Carrier]
		if !ok {
			c = &carrierAcc{first: i}
			p.carriers[r.Carrier] = c
		}
		c.add(r)

		key := r.Route()
		rt, ok := p.routes[key]
		if !ok {
			rt = &routeAcc{first: i}
			p.routes[key] = rt
		}
		rt.add(i, r)

		if r.HasMonth() {
			p.hasMonth = true
			m := &p.months[r.Month]
			m.count++
			m.cost += r.CostRub
			m.weight += int64(r.WeightKg)
		}
	}
}

// merge folds o into p. Callers merge in partition order.
func (p *partial) merge(o *partial) {
	p.kpi.merge(o.kpi)
	for name, oc := range o.carriers {
		if c, ok := p.carriers[name]; ok {
			c.merge(oc)
		} else {
			p.carriers[name] = oc
		}
	}
	for key, or := range o.routes {
		if rt, ok := p.routes[key]; ok {
			rt.merge(or)
		} else {
			p.routes[key] = or
		}
	}
	for m := 1; m <= 12; m++ {
		p.months[m].count += o.months[m].count
		p.months[m].cost += o.months[m].cost
		p.months[m].weight += o.months[m].weight
	}
	p.hasMonth = p.hasMonth || o.hasMonth
}

// foldTable folds records sequentially
func foldTable(records []domain.ShipmentRecord) *partial {
	p := newPartial()
	p.fold(records, 0)
	return p
}

// foldParallel splits records into contiguous partitions, folds them
// concurrently and merges the partials by partition index.
func foldParallel(ctx context.Context, records []domain.ShipmentRecord, workers int) (*partial, error) {
	if workers <= 1 || len(records) < 2*minPartitionSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return foldTable(records), nil
	}

	parts := min(workers, len(records)/minPartitionSize)
	size := (len(records) + parts - 1) / parts
	partials := make([]*partial, parts)

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < parts; i++ {
		lo := i * size
		hi := min(lo+size, len(records))
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			p := newPartial()
			p.fold(records[lo:hi], lo)
			partials[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := partials[0]
	for _, p := range partials[1:] {
		merged.merge(p)
	}
	return merged, nil
}
