package schema

import "neocc-backend/lib/neotable"

// bodies that appear in close-approach records
var approachBodies = []string{"EARTH", "MOON", "VENUS", "MARS", "MERCURY"}

// NewRegistry builds the registry of every table the NEOCC portal publishes.
// Call it once at startup and share the result; it never mutates afterwards.
func NewRegistry() *Registry {
	specs := map[Category]Spec{}
	add := func(s Spec) {
		specs[s.Category] = s
	}

	add(Spec{
		Category: NEAList,
		Class:    ClassCatalog,
		Layout:   LayoutLines,
		Columns: []Column{
			{Name: "Object Name", Kind: neotable.KindText},
		},
	})

	riskColumns := []Column{
		{Name: "Object Name", Kind: neotable.KindText},
		{Name: "Diameter", Kind: neotable.KindFloat, Unit: "m"},
		{Name: "Date/Time", Kind: neotable.KindDate},
		{Name: "IP max", Kind: neotable.KindFloat},
		{Name: "PS max", Kind: neotable.KindFloat},
		{Name: "TS", Kind: neotable.KindInt},
		{Name: "Vel", Kind: neotable.KindFloat, Unit: "km/s"},
	}
	add(Spec{
		Category:     RiskList,
		Class:        ClassCatalog,
		Layout:       LayoutPipe,
		Columns:      riskColumns,
		HeaderMarker: "Num/des.",
	})
	add(Spec{
		Category:     RiskListSpecial,
		Class:        ClassCatalog,
		Layout:       LayoutPipe,
		Columns:      riskColumns,
		HeaderMarker: "Num/des.",
	})

	closeApprColumns := []Column{
		{Name: "Object Name", Kind: neotable.KindText},
		{Name: "Date", Kind: neotable.KindDate},
		{Name: "Miss Distance in km", Kind: neotable.KindFloat, Unit: "km"},
		{Name: "Miss Distance in au", Kind: neotable.KindFloat, Unit: "au"},
		{Name: "Miss Distance in LD", Kind: neotable.KindFloat, Unit: "LD"},
		{Name: "Diameter", Kind: neotable.KindFloat, Unit: "m"},
		{Name: "*=Yes", Kind: neotable.KindEnum, Enum: []string{"*"}},
		{Name: "H", Kind: neotable.KindMagnitude, Unit: "mag"},
		{Name: "Max Bright", Kind: neotable.KindMagnitude, Unit: "mag"},
		{Name: "Rel. vel", Kind: neotable.KindFloat, Unit: "km/s"},
	}
	add(Spec{
		Category:     CloseApproachUpcoming,
		Class:        ClassCatalog,
		Layout:       LayoutPipe,
		Columns:      closeApprColumns,
		HeaderMarker: "Object",
	})
	add(Spec{
		Category:     CloseApproachRecent,
		Class:        ClassCatalog,
		Layout:       LayoutPipe,
		Columns:      closeApprColumns,
		HeaderMarker: "Object",
	})

	priorityColumns := []Column{
		{Name: "Priority", Kind: neotable.KindEnum, Enum: []string{"0", "1", "2", "3"}},
		{Name: "Object", Kind: neotable.KindText},
		{Name: "R.A.", Kind: neotable.KindFloat, Unit: "arcsec"},
		{Name: "Decl.", Kind: neotable.KindFloat, Unit: "deg"},
		{Name: "Elong.", Kind: neotable.KindFloat, Unit: "deg"},
		{Name: "V", Kind: neotable.KindMagnitude, Unit: "mag"},
		{Name: "Sky uncert.", Kind: neotable.KindFloat, Unit: "arcsec"},
		{Name: "End of Visibility", Kind: neotable.KindDate},
	}
	add(Spec{
		Category:     PriorityList,
		Class:        ClassCatalog,
		Layout:       LayoutWhitespace,
		Columns:      priorityColumns,
		HeaderMarker: "Priority",
	})
	add(Spec{
		Category:     PriorityListFaint,
		Class:        ClassCatalog,
		Layout:       LayoutWhitespace,
		Columns:      priorityColumns,
		HeaderMarker: "Priority",
	})

	add(Spec{
		Category: PhysicalProperties,
		Class:    ClassPropertyTab,
		Layout:   LayoutHTMLProperties,
		Columns: []Column{
			{Name: "Property", Kind: neotable.KindText},
			{Name: "Values", Kind: neotable.KindAny},
			{Name: "Unit", Kind: neotable.KindText},
			{Name: "Source", Kind: neotable.KindText},
		},
	})
	add(Spec{
		Category: Summary,
		Class:    ClassPropertyTab,
		Layout:   LayoutHTMLProperties,
		Columns: []Column{
			{Name: "Property", Kind: neotable.KindText},
			{Name: "Value", Kind: neotable.KindAny},
			{Name: "Unit", Kind: neotable.KindText},
		},
	})

	add(Spec{
		Category: CloseApproaches,
		Class:    ClassCatalog,
		Layout:   LayoutWhitespace,
		Columns: []Column{
			{Name: "Body", Kind: neotable.KindEnum, Enum: approachBodies},
			{Name: "Calendar Time", Kind: neotable.KindDate},
			{Name: "MJD Time", Kind: neotable.KindFloat, Unit: "MJD"},
			{Name: "Time Uncert.", Kind: neotable.KindFloat, Unit: "d"},
			{Name: "Distance", Kind: neotable.KindFloat, Unit: "au"},
			{Name: "Min. Distance", Kind: neotable.KindFloat, Unit: "au"},
			{Name: "Dist. Uncert.", Kind: neotable.KindFloat, Unit: "au"},
			{Name: "Width", Kind: neotable.KindFloat, Unit: "au"},
			{Name: "Stretch", Kind: neotable.KindFloat, Unit: "au"},
			{Name: "Probability", Kind: neotable.KindFloat},
		},
		HeaderMarker: "BODY",
	})

	add(Spec{
		Category: Impacts,
		Class:    ClassCatalog,
		Layout:   LayoutWhitespace,
		Columns: []Column{
			{Name: "Date", Kind: neotable.KindDate},
			{Name: "MJD", Kind: neotable.KindFloat, Unit: "MJD"},
			{Name: "Sigma", Kind: neotable.KindFloat},
			{Name: "Sigimp", Kind: neotable.KindFloat},
			{Name: "Dist", Kind: neotable.KindFloat, Unit: "RE"},
			{Name: "Width", Kind: neotable.KindFloat, Unit: "RE"},
			{Name: "p_RE", Kind: neotable.KindFloat},
			{Name: "Exp. Energy", Kind: neotable.KindFloat, Unit: "MT"},
			{Name: "PS", Kind: neotable.KindFloat},
			{Name: "TS", Kind: neotable.KindInt},
		},
		HeaderMarker: "date",
		FooterMarker: "Based",
	})

	add(Spec{
		Category: OrbitProperties,
		Class:    ClassPropertyTab,
		Layout:   LayoutKeywordBlocks,
		Columns: []Column{
			{Name: "Parameter", Kind: neotable.KindText},
			{Name: "Value", Kind: neotable.KindAny},
			{Name: "Unit", Kind: neotable.KindText},
		},
	})

	// optical observations, the main table of the .rwo file; roving,
	// satellite and radar rows get their own column sets in the assembler
	add(Spec{
		Category: Observations,
		Class:    ClassCatalog,
		Layout:   LayoutObservations,
		Columns: []Column{
			{Name: "Designation", Kind: neotable.KindText},
			{Name: "K", Kind: neotable.KindText},
			{Name: "Type", Kind: neotable.KindText},
			{Name: "N", Kind: neotable.KindText},
			{Name: "Date", Kind: neotable.KindDate},
			{Name: "Date Accuracy", Kind: neotable.KindFloat, Unit: "d"},
			{Name: "RA", Kind: neotable.KindText},
			{Name: "RA Accuracy", Kind: neotable.KindFloat, Unit: "arcsec"},
			{Name: "RA RMS", Kind: neotable.KindFloat, Unit: "arcsec"},
			{Name: "RA Resid", Kind: neotable.KindFloat, Unit: "arcsec"},
			{Name: "DEC", Kind: neotable.KindText},
			{Name: "DEC Accuracy", Kind: neotable.KindFloat, Unit: "arcsec"},
			{Name: "DEC RMS", Kind: neotable.KindFloat, Unit: "arcsec"},
			{Name: "DEC Resid", Kind: neotable.KindFloat, Unit: "arcsec"},
			{Name: "Mag", Kind: neotable.KindMagnitude, Unit: "mag"},
			{Name: "Ast Cat", Kind: neotable.KindText},
			{Name: "Obs Code", Kind: neotable.KindText},
			{Name: "Chi", Kind: neotable.KindFloat},
		},
	})

	add(Spec{
		Category: Ephemerides,
		Class:    ClassEphemeris,
		Layout:   LayoutEphemeris,
		Columns: []Column{
			{Name: "Timestamp", Kind: neotable.KindDate},
			{Name: "MJD", Kind: neotable.KindFloat, Unit: "MJD"},
			{Name: "RA", Kind: neotable.KindFloat, Unit: "deg"},
			{Name: "DEC", Kind: neotable.KindFloat, Unit: "deg"},
			{Name: "Mag", Kind: neotable.KindMagnitude, Unit: "mag"},
			{Name: "Airmass", Kind: neotable.KindFloat},
			{Name: "R", Kind: neotable.KindFloat, Unit: "au"},
			{Name: "Delta", Kind: neotable.KindFloat, Unit: "au"},
			{Name: "Phase", Kind: neotable.KindFloat, Unit: "deg"},
		},
		HeaderMarker: "Timestamp",
	})

	return &Registry{specs: specs}
}
