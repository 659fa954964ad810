package domain

// Column names shared by the source datasets and the aggregated report.
const (
	ColMaterialReference     = "MaterialReference"
	ColManufacturerID        = "ManufacturerID"
	ColManufacturerName      = "ManufacturerName"
	ColArticleNumber         = "ArticleNumber"
	ColTypeCode              = "TypeCode"
	ColShortText             = "ShortText"
	ColPlant                 = "Plant"
	ColDisposition           = "Disposition"
	ColReporderPoint         = "ReporderPoint"
	ColSupplierID            = "SupplierID"
	ColSupplierName          = "SupplierName"
	ColSupplierArticleNumber = "SupplierArticleNumber"
	ColStorageLocation       = "StorageLocation"
	ColStorageBin            = "StorageBin"
	ColDeletedStorageLevel   = "DeletedStorageLevel"
)

// SourceName identifies one of the input datasets.
type SourceName string

const (
	SourceMaterials         SourceName = "materials"
	SourcePlants            SourceName = "plants"
	SourceStorage           SourceName = "storage"
	SourceSuppliers         SourceName = "suppliers"
	SourceSupplierNames     SourceName = "supplier_names"
	SourceManufacturerNames SourceName = "manufacturer_names"
)

// AllSources lists every known source in load order.
var AllSources = []SourceName{
	SourceMaterials,
	SourcePlants,
	SourceStorage,
	SourceSuppliers,
	SourceSupplierNames,
	SourceManufacturerNames,
}

// Required reports whether a run cannot proceed without s. Every other
// source only enriches the storage rows.
func (s SourceName) Required() bool { return s == SourceStorage }

// Valid reports whether s is a known source.
func (s SourceName) Valid() bool {
	for _, known := range AllSources {
		if s == known {
			return true
		}
	}
	return false
}

// OutputColumns is the fixed column order of the aggregated report.
var OutputColumns = []string{
	ColMaterialReference,
	ColManufacturerName,
	ColArticleNumber,
	ColTypeCode,
	ColShortText,
	ColPlant,
	ColDisposition,
	ColReporderPoint,
	ColSupplierName,
	ColSupplierArticleNumber,
	ColStorageLocation,
	ColStorageBin,
	ColDeletedStorageLevel,
}

// FinalGrain uniquely identifies a row of the aggregated report.
var FinalGrain = []string{
	ColMaterialReference,
	ColPlant,
	ColStorageLocation,
	ColStorageBin,
}

// SourceGrains are the keys each source is expected to be unique on.
// Name lookup tables carry no declared grain.
var SourceGrains = map[SourceName][]string{
	SourceMaterials: {ColMaterialReference},
	SourcePlants:    {ColMaterialReference, ColPlant},
	SourceStorage:   {ColMaterialReference, ColPlant, ColStorageLocation, ColStorageBin},
	SourceSuppliers: {ColMaterialReference, ColSupplierID},
}

// DefaultInputFiles maps each source to its conventional file name.
var DefaultInputFiles = map[SourceName]string{
	SourceMaterials:         "materials.xlsx",
	SourcePlants:            "plants.xlsx",
	SourceStorage:           "storage.xlsx",
	SourceSuppliers:         "suppliers.xlsx",
	SourceSupplierNames:     "supplier-names.xlsx",
	SourceManufacturerNames: "manufacturer-names.xlsx",
}
