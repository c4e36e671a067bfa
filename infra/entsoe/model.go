package entsoe

import "encoding/xml"

// psrTypeNames maps ENTSO-E production type codes to friendly fuel names.
var psrTypeNames = map[string]string{
	"B01": "Biomass",
	"B02": "Fossil Brown coal/Lignite",
	"B03": "Fossil Coal-derived gas",
	"B04": "Fossil Gas",
	"B05": "Fossil Hard coal",
	"B06": "Fossil Oil",
	"B09": "Geothermal",
	"B10": "Hydro Pumped Storage",
	"B11": "Hydro Run-of-river",
	"B12": "Hydro Water Reservoir",
	"B13": "Marine",
	"B14": "Nuclear",
	"B15": "Other renewable",
	"B16": "Solar",
	"B17": "Waste",
	"B18": "Wind Offshore",
	"B19": "Wind Onshore",
	"B20": "Other",
}

// fuelName resolves a psrType code, defaulting to "Other" for unknown codes.
func fuelName(code string) string {
	if name, ok := psrTypeNames[code]; ok {
		return name
	}
	return "Other"
}

// generationDocument mirrors the GL_MarketDocument returned for an A75
// "actual generation per type" query.
type generationDocument struct {
	XMLName    xml.Name     `xml:"GL_MarketDocument"`
	TimeSeries []timeSeries `xml:"TimeSeries"`
}

type timeSeries struct {
	MktPSRType psrType  `xml:"MktPSRType"`
	Periods    []period `xml:"Period"`
}

type psrType struct {
	PsrType string `xml:"psrType"`
}

type period struct {
	TimeInterval timeInterval `xml:"timeInterval"`
	Points       []point      `xml:"Point"`
}

type timeInterval struct {
	Start string `xml:"start"`
	End   string `xml:"end"`
}

type point struct {
	Position int     `xml:"position"`
	Quantity float64 `xml:"quantity"`
}
