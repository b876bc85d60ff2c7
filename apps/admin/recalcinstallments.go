package main

// recalcInstallments refreshes installment statuses against today's date.
// Meant to be scheduled daily.
func (cli *commandLine) recalcInstallments() error {
	n, err := cli.feeSvc.RecalculateStatuses()
	if err != nil {
		return err
	}
	logger.Printf("%d installments updated", n)
	return nil
}
