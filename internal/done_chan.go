package internal

import "sync"

// DoneChan is closed when a background component has fully terminated.
type DoneChan chan struct{}

// DoneFunc initiates shutdown and returns the completion channel.
type DoneFunc func() DoneChan

// WrapWaitGroup converts a WaitGroup wait into a DoneChan.
func WrapWaitGroup(wg *sync.WaitGroup) DoneChan {
	ret := make(DoneChan)
	go func() {
		wg.Wait()
		close(ret)
	}()
	return ret
}
