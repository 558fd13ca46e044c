package registry

// HostFor exposes hostFor to tests.
var HostFor = hostFor
