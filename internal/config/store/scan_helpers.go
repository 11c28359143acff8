package store

import (
	"database/sql"
	"fmt"
)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGuild(scanner rowScanner) (Guild, error) {
	var (
		guild       Guild
		adminRoleID sql.NullString
	)
	err := scanner.Scan(
		&guild.ID,
		&guild.GuildID,
		&adminRoleID,
		&guild.CreatedAt,
		&guild.UpdatedAt,
	)
	if err != nil {
		return Guild{}, err
	}
	if adminRoleID.Valid {
		guild.AdminRoleID = &adminRoleID.String
	}
	return guild, nil
}

func scanLinkedAccount(scanner rowScanner) (LinkedAccount, error) {
	var (
		account              LinkedAccount
		canManage, canCreate int
	)
	err := scanner.Scan(
		&account.ID,
		&account.ActorID,
		&account.GuildID,
		&account.PanelURL,
		&account.APIKey,
		&canManage,
		&canCreate,
		&account.MaxServers,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		return LinkedAccount{}, err
	}
	account.CanManageServers = canManage != 0
	account.CanCreateUsers = canCreate != 0
	return account, nil
}

func scanServerLink(scanner rowScanner) (ServerLink, error) {
	var (
		link          ServerLink
		autoStart     int
		notifyChannel sql.NullString
	)
	err := scanner.Scan(
		&link.ID,
		&link.AccountID,
		&link.ServerID,
		&link.ServerName,
		&link.ServerIdent,
		&autoStart,
		&notifyChannel,
		&link.CreatedAt,
		&link.UpdatedAt,
	)
	if err != nil {
		return ServerLink{}, err
	}
	link.AutoStart = autoStart != 0
	if notifyChannel.Valid {
		link.NotifyChannelID = &notifyChannel.String
	}
	return link, nil
}

func scanAuditRecord(scanner rowScanner) (AuditRecord, error) {
	var (
		record     AuditRecord
		targetID   sql.NullString
		detailsRaw sql.NullString
		success    int
		errMessage sql.NullString
	)
	err := scanner.Scan(
		&record.ID,
		&record.ActorID,
		&record.GuildID,
		&record.Action,
		&record.TargetType,
		&targetID,
		&detailsRaw,
		&success,
		&errMessage,
		&record.Timestamp,
	)
	if err != nil {
		return AuditRecord{}, err
	}
	record.Success = success != 0
	if targetID.Valid {
		record.TargetID = &targetID.String
	}
	if errMessage.Valid {
		record.ErrorMessage = &errMessage.String
	}

	details, err := decodeJSON[map[string]any](detailsRaw)
	if err != nil {
		return AuditRecord{}, fmt.Errorf("decode audit details for id=%d: %w", record.ID, err)
	}
	record.Details = details
	return record, nil
}
