package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Структура дерева
	AstInfo                  Code = 1000
	AstSpanOutsideParent     Code = 1001
	AstSpanInverted          Code = 1002
	AstPhaseMismatch         Code = 1004
	AstUseInResolvedTree     Code = 1005
	AstFunctionEndBeforeHead Code = 1006

	// bit string segment options
	AstSegmentInfo            Code = 1100
	AstSegmentEndianness      Code = 1101
	AstSegmentSignedness      Code = 1102
	AstSegmentType            Code = 1103
	AstSegmentDuplicateSize   Code = 1104
	AstSegmentDuplicateUnit   Code = 1105
	AstSegmentUnitWithoutSize Code = 1106
	AstSegmentZeroUnit        Code = 1107

	// Конвейер
	DrvInfo          Code = 2000
	DrvParseFailed   Code = 2001
	DrvResolveFailed Code = 2002
	DrvCancelled     Code = 2003
	DrvCacheCorrupt  Code = 2004

	// Ввод-вывод
	IOLoadFileError  Code = 4001
	IOWriteFileError Code = 4002

	// Проект
	ProjInfo           Code = 5000
	ProjConfigNotFound Code = 5001
	ProjConfigInvalid  Code = 5002
	ProjUnknownTarget  Code = 5003

	// module graph
	ProjDuplicateModule  Code = 5100
	ProjMissingModule    Code = 5101
	ProjSelfImport       Code = 5102
	ProjImportCycle      Code = 5103
	ProjDependencyFailed Code = 5104
)

var (
	codeDescription = map[Code]string{
		UnknownCode:               "Unknown error",
		AstInfo:                   "Tree information",
		AstSpanOutsideParent:      "Child span lies outside its parent",
		AstSpanInverted:           "Span ends before it starts",
		AstPhaseMismatch:          "Node does not match the tree phase",
		AstUseInResolvedTree:      "Use statement in a resolved tree",
		AstFunctionEndBeforeHead:  "Function ends before its head",
		AstSegmentInfo:            "Segment information",
		AstSegmentEndianness:      "Conflicting endianness options",
		AstSegmentSignedness:      "Conflicting signedness options",
		AstSegmentType:            "Conflicting segment type options",
		AstSegmentDuplicateSize:   "Duplicate size option",
		AstSegmentDuplicateUnit:   "Duplicate unit option",
		AstSegmentUnitWithoutSize: "Unit option without size",
		AstSegmentZeroUnit:        "Unit must be at least 1",
		DrvInfo:                   "Pipeline information",
		DrvParseFailed:            "Module failed to parse",
		DrvResolveFailed:          "Module failed to resolve",
		DrvCancelled:              "Pipeline cancelled",
		DrvCacheCorrupt:           "Dependency cache entry is corrupt",
		IOLoadFileError:           "I/O load file error",
		IOWriteFileError:          "I/O write file error",
		ProjInfo:                  "Project information",
		ProjConfigNotFound:        "Project config not found",
		ProjConfigInvalid:         "Project config is invalid",
		ProjUnknownTarget:         "Unknown compilation target",
		ProjDuplicateModule:       "Module declared twice",
		ProjMissingModule:         "Imported module does not exist",
		ProjSelfImport:            "Module imports itself",
		ProjImportCycle:           "Import cycle",
		ProjDependencyFailed:      "Dependency module has errors",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("AST%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("DRV%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("PRJ%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
