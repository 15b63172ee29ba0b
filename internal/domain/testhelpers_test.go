package domain

func ptr(v float64) *float64 { return &v }

// square returns four vertices of one polygon sharing a precipitation value.
func square(region string, group int, precip float64) []CountyRecord {
	out := make([]CountyRecord, 0, 4)
	for _, c := range [][2]float64{{44, -121}, {44, -120}, {45, -120}, {45, -121}} {
		out = append(out, CountyRecord{Region: region, Group: group, Lat: c[0], Lon: c[1], AveragePrecip: ptr(precip)})
	}
	return out
}

// ring returns n vertices of one polygon sharing a precipitation value.
func ring(region string, group int, precip float64, n int) []CountyRecord {
	out := make([]CountyRecord, n)
	for i := range out {
		out[i] = CountyRecord{
			Region:        region,
			Group:         group,
			Lat:           44 + float64(i)/float64(n),
			Lon:           -121 + float64(i)/float64(n),
			AveragePrecip: ptr(precip),
		}
	}
	return out
}
