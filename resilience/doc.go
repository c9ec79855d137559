// Package resilience bounds how much work the service accepts at once.
//
//	bh := resilience.NewBulkhead(resilience.BulkheadConfig{
//	    Name:          "crypto",
//	    MaxConcurrent: 8,
//	    MaxWait:       200 * time.Millisecond,
//	})
//	err := bh.Execute(ctx, func() error {
//	    _, err := svc.DecryptWithRandomIV(ct, passphrase)
//	    return err
//	})
package resilience
