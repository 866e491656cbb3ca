// Package generator produces synthetic shipment records.
//
// A Generator is built once from validated reference tables (cities with
// origin weights, carriers, cargo types and a partial directional distance
// table) and then called once per shipment with an explicit random Source.
// The same tables, id and seeded Source always yield the same record.
//
// Basic usage:
//
//	gen, err := generator.New(generator.DefaultReferenceTables(), logger)
//	if err != nil {
//	    return err
//	}
//	rec := gen.Generate(1, generator.NewSeededRNG(7))
package generator
