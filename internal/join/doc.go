// Package join enriches the storage base table with the other sources.
//
// Every join is left-outer, so the storage rows define the result: each
// output row is a storage row plus whatever the enrichment sources know
// about it. The supplier relationship is one-to-many and is reduced to the
// primary (lowest numbered) supplier per material before it is joined.
//
// The order is fixed:
//
//	storage
//	  <- materials           on MaterialReference
//	  <- manufacturer_names  on ManufacturerID
//	  <- plants              on MaterialReference, Plant
//	  <- primary supplier    on MaterialReference
//	  <- supplier_names      on SupplierID
package join
