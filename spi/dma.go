package spi

// DMARequest is a DMAMUX request line identifier (RM0440 table of DMAMUX
// inputs). Exported so board code can route a DMA channel to the
// controller's transmit path without going through the blocking engine;
// this package does not drive DMA transfers itself.
type DMARequest uint8

const (
	DMAReqSPI1TX DMARequest = 11
	DMAReqSPI2TX DMARequest = 13
	DMAReqSPI3TX DMARequest = 15
	DMAReqSPI4TX DMARequest = 108
)

// EnableTxDMA makes the controller raise its transmit DMA request
// whenever the FIFO has room, so an external DMA channel can feed DR
// directly. The blocking engine must not be used while a DMA transfer is
// in flight.
func (b *Bus) EnableTxDMA() {
	b.port.SetControl2(b.port.Control2() | CR2_TXDMAEN)
}

// TxDMATarget returns the fixed bus address of the data register and the
// controller's DMAMUX transmit request line, the two values a DMA-driven
// transmit path needs.
func (b *Bus) TxDMATarget() (uintptr, DMARequest) {
	return b.port.DataAddress(), b.txReq
}
