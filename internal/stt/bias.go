package stt

import "strings"

// datasetBias lists subtitle-credit boilerplate and broadcaster watermarks
// the remote speech model emits on silence. Every occurrence is stripped
// from a transcript before it is compared against the prior emission.
var datasetBias = []string{
	"Untertitelung aufgrund der Amara.org-Community",
	"Untertitel im Auftrag des ZDF für funk, 2017",
	"Untertitel von Stephanie Geiges",
	"Untertitel der Amara.org-Community",
	"Untertitel  der  Amara .org -Community",
	"Untertitel im Auftrag des ZDF, 2017",
	"Untertitel im Auftrag des ZDF, 2020",
	"Untertitel im Auftrag des ZDF, 2018",
	"Untertitel im Auftrag des ZDF, 2021",
	"Untertitelung im Auftrag des ZDF, 2021",
	"Copyright WDR 2021",
	"Copyright WDR 2020",
	"Copyright WDR 2019",
	"SWR 2021",
	"SWR 2020",
}

// stripBias removes every dataset-bias occurrence from s.
func stripBias(s string) string {
	for _, phrase := range datasetBias {
		s = strings.ReplaceAll(s, phrase, "")
	}
	return s
}
