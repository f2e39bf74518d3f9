package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/1Leo18/npcbot/pkg/chat"
	"github.com/1Leo18/npcbot/pkg/tags"
	"github.com/1Leo18/npcbot/pkg/turkish"
)

// Purchase finalizes a sale the user confirmed with the purchase
// command. The last model-authored turn's price and item tags are the
// contract; every validation failure returns a character-voiced
// refusal, not an error. Errors are reserved for storage failures.
func (e *Engine) Purchase(ctx context.Context, npcName, userID, userName string) (string, error) {
	def, err := e.store.GetNPC(ctx, npcName)
	if err != nil {
		return "", err
	}
	if def == nil {
		return "*Etrafına bakınır.*\n\n***''Burada böyle biri yok galiba... Yanlış yerde misin?''***", nil
	}
	npcID := def.ID()

	offer, ok, err := e.lastModelTurn(ctx, npcID, userID)
	if err != nil {
		return "", err
	}
	if !ok {
		return "Satın alınacak bir ürün bulunamadı. Önce NPC ile konuşun.", nil
	}

	parsed := tags.Parse(offer)
	if parsed.Price == nil {
		return "*Kaşlarını çatarak sana bakıyor.*\n\n***''Ne satacağımı söyledim ama fiyatı belirtmedim mi? Tekrar söyleyeyim mi?''***", nil
	}
	if parsed.Item == nil {
		return "*Kafasını kaşıyarak sana bakıyor.*\n\n***''Hangi eşyadan bahsediyorsun? Satacağım eşyayı belirtmedim mi?''***", nil
	}

	itemName := parsed.Item.Name
	item, err := e.store.GetItem(ctx, npcID, itemName)
	if err != nil {
		return "", err
	}
	if item == nil {
		catalog, err := e.store.GetItems(ctx, npcID)
		if err != nil {
			return "", err
		}
		names := make([]string, 0, len(catalog))
		for _, it := range catalog {
			names = append(names, it.Name)
		}
		return fmt.Sprintf("*Kaşlarını çatarak sana bakıyor.*\n\n***''%s mı? O eşyayı satmıyorum! Satabileceğim eşyalar: %s''***",
			itemName, strings.Join(names, ", ")), nil
	}

	if parsed.Price.Amount != item.Price || parsed.Price.Currency != item.Currency {
		return fmt.Sprintf("*Kafasını sallayarak sana bakıyor.*\n\n***''Hayır hayır, %s %d %s olacak! Yanlış fiyat söyledin.''***",
			itemName, item.Price, item.Currency), nil
	}

	serverRoles, err := e.store.GetServerRoles(ctx)
	if err != nil {
		return "", err
	}
	if !containsFold(serverRoles, itemName) {
		return fmt.Sprintf("*Şaşkın bir ifadeyle sana bakıyor.*\n\n***''%s diye bir eşya var mı? Böyle bir şey hiç duymadım...''***", itemName), nil
	}

	cost := item.Cost()
	balance, err := e.store.GetBalance(ctx, userID)
	if err != nil {
		return "", err
	}
	if !balance.Covers(cost) {
		return "*Cebini kontrol eder gibi yapıp sana bakıyor.*\n\n***''Paran yetmiyor dostum! Daha fazla para getir.''***", nil
	}

	owned, err := e.store.HasUserRole(ctx, userID, itemName)
	if err != nil {
		return "", err
	}
	if owned {
		return fmt.Sprintf("*Kaşlarını çatarak sana bakıyor.*\n\n***''Zaten %s var sende! Aynı eşyayı tekrar almak mı istiyorsun?''***", itemName), nil
	}

	if _, err := e.store.AdjustBalance(ctx, userID, cost.Negate()); err != nil {
		return "", err
	}
	if err := e.store.AddUserRole(ctx, userID, itemName); err != nil {
		// ledger is already debited; surface the grant failure so an
		// admin can fix it
		e.logger.Error("Item grant failed after debit", "npc", npcID, "user", userID, "item", itemName, "error", err)
		return fmt.Sprintf("*Parayı alıp eşyayı sana uzatıyor.*\n\n***''İşte %s! %d %s aldım. İyi kullan!''***\n\n⚠️ Eşya eklenirken bir hata oluştu, lütfen yönetici ile iletişime geçin.",
			itemName, item.Price, item.Currency), nil
	}

	e.logger.Info("Purchase completed", "npc", npcID, "user", userID, "user_name", userName, "item", itemName, "price", item.Price, "currency", item.Currency)
	return fmt.Sprintf("*Parayı alıp eşyayı sana uzatıyor.*\n\n***''İşte %s! %d %s aldım. İyi kullan!''***\n\n🎒 **%s** envanterinize eklendi!",
		itemName, item.Price, item.Currency, itemName), nil
}

// lastModelTurn returns the most recent model-authored turn of the
// conversation.
func (e *Engine) lastModelTurn(ctx context.Context, npcID, userID string) (string, bool, error) {
	turns, err := e.store.GetConversation(ctx, npcID, userID)
	if err != nil {
		return "", false, err
	}
	for i := len(turns) - 1; i >= 0; i-- {
		if turns[i].Role == chat.RoleModel {
			return turns[i].Text, true, nil
		}
	}
	return "", false, nil
}

func containsFold(list []string, target string) bool {
	for _, item := range list {
		if turkish.Equal(item, target) {
			return true
		}
	}
	return false
}
