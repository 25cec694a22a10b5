package simulation

// basket is the resolved product set of one invoice.
type basket struct {
	device       int64
	hasDevice    bool
	refills      []int64
	accessory    int64
	hasAccessory bool
	sparePart    int64
	hasSparePart bool
}

func (b basket) empty() bool {
	return !b.hasDevice && len(b.refills) == 0 && !b.hasAccessory && !b.hasSparePart
}

// products lists the basket in emission order: device, refills, accessory, spare part.
func (b basket) products() []int64 {
	out := make([]int64, 0, len(b.refills)+3)
	if b.hasDevice {
		out = append(out, b.device)
	}
	out = append(out, b.refills...)
	if b.hasAccessory {
		out = append(out, b.accessory)
	}
	if b.hasSparePart {
		out = append(out, b.sparePart)
	}
	return out
}

// composeBasket draws the lines of one invoice. The second return value is
// false when every pool is empty and the attempt has to be dropped.
func (s *Simulator) composeBasket(devicesOwned int) (basket, bool) {
	pools := s.params.Pools
	sch := s.params.Schedules
	var b basket

	// Device purchases get rarer with every device already owned.
	pDevice := sch.PDeviceByNth.at(devicesOwned)
	if Bernoulli(s.rng, pDevice) && len(pools.Devices) > 0 {
		b.device, b.hasDevice = PickOne(s.rng, pools.Devices), true
	}

	if len(pools.Refills) > 0 && Bernoulli(s.rng, sch.PRefillInvoice) {
		// Weights were validated in New.
		n, _ := SampleCount(s.rng, sch.RefillCountProbs)
		b.refills = make([]int64, 0, n)
		for i := 0; i < n; i++ {
			b.refills = append(b.refills, PickOne(s.rng, pools.Refills))
		}
	}

	if len(pools.Accessories) > 0 && Bernoulli(s.rng, sch.PAccessoryInvoice) {
		b.accessory, b.hasAccessory = PickOne(s.rng, pools.Accessories), true
	}
	if len(pools.SpareParts) > 0 && Bernoulli(s.rng, sch.PSparePartInvoice) {
		b.sparePart, b.hasSparePart = PickOne(s.rng, pools.SpareParts), true
	}

	if !b.empty() {
		return b, true
	}

	// Fallback line, first non-empty pool wins.
	switch {
	case len(pools.Refills) > 0:
		b.refills = []int64{PickOne(s.rng, pools.Refills)}
	case len(pools.Devices) > 0:
		b.device, b.hasDevice = PickOne(s.rng, pools.Devices), true
	case len(pools.Accessories) > 0:
		b.accessory, b.hasAccessory = PickOne(s.rng, pools.Accessories), true
	case len(pools.SpareParts) > 0:
		b.sparePart, b.hasSparePart = PickOne(s.rng, pools.SpareParts), true
	default:
		return basket{}, false
	}
	return b, true
}
