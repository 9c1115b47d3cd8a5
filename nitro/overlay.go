/*
 * Copyright 2025 Adrià Giménez Pastor.
 *
 * This file is part of adriagipas/ctrvfs.
 *
 * adriagipas/ctrvfs is free software: you can redistribute it and/or
 * modify it under the terms of the GNU General Public License as
 * published by the Free Software Foundation, either version 3 of the
 * License, or (at your option) any later version.
 *
 * adriagipas/ctrvfs is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
 * General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with adriagipas/ctrvfs.  If not, see
 * <https://www.gnu.org/licenses/>.
 */
/*
 *  overlay.go - Taules d'overlays dels cartutxos DS. Cada registre fa
 *               32 bytes.
 */

package nitro

import (
  "fmt"

  "github.com/adriagipas/ctrvfs/utils"
)


/*********/
/* TIPUS */
/*********/

type NDS_Overlay struct {

  OverlayID       uint32
  RamAddress      uint32
  RamSize         uint32
  BssSize         uint32
  StaticInitStart uint32
  StaticInitEnd   uint32
  FileID          uint32
  Reserved        uint32

}


/************/
/* FUNCIONS */
/************/

func parseOverlayTable( acc utils.Accessor, table NDS_Table ) (
  []NDS_Overlay,error) {

  if table.Size == 0 { return nil,nil }
  if table.Size%32 != 0 {
    return nil,fmt.Errorf ( "Error while reading NDS overlay table: size"+
      " (%d) is not a multiple of 32: %w", table.Size,
      utils.ErrInvalidFormat )
  }

  buf:= make([]byte,table.Size)
  if err:= acc.Read ( buf, table.Offset ); err != nil {
    return nil,fmt.Errorf ( "Error while reading NDS overlay table: %w",
      err )
  }

  count:= int(table.Size/32)
  ret:= make([]NDS_Overlay,count)
  for i:= 0; i < count; i++ {
    mem:= buf[i*32:(i+1)*32]
    ret[i]= NDS_Overlay{
      OverlayID: readU32 ( mem, 0 ),
      RamAddress: readU32 ( mem, 4 ),
      RamSize: readU32 ( mem, 8 ),
      BssSize: readU32 ( mem, 12 ),
      StaticInitStart: readU32 ( mem, 16 ),
      StaticInitEnd: readU32 ( mem, 20 ),
      FileID: readU32 ( mem, 24 ),
      Reserved: readU32 ( mem, 28 ),
    }
  }

  return ret,nil

} // end parseOverlayTable
