package kb

import "strings"

const sampleJournals = `
# comment line is ignored
Physical Review D --- Phys.Rev.D
Physical Review Letters --- Phys.Rev.Lett.
Journal of High Energy Physics --- JHEP
Physics Letters --- Phys.Lett.
`

const sampleReportNumbers = `
# numeration block for CERN-style preprints
<9999 9999>
CERN --- CERN
*****
<9999>
SLAC-PUB --- SLAC-PUB
`

const sampleCollaborations = `
ATLAS Collaboration --- ATLAS
CMS Collaboration --- CMS
`

func newTestKB() (*JournalIndex, *ReportTrie, *CollabIndex) {
	j, err := LoadJournals(strings.NewReader(sampleJournals))
	if err != nil {
		panic(err)
	}
	r, err := LoadReportNumbers(strings.NewReader(sampleReportNumbers))
	if err != nil {
		panic(err)
	}
	c, err := LoadCollaborations(strings.NewReader(sampleCollaborations))
	if err != nil {
		panic(err)
	}
	return j, r, c
}
